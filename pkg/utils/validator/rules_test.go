package validator

import (
	"testing"

	v10 "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func newEngine(t *testing.T) *v10.Validate {
	t.Helper()
	validate := v10.New()
	RegisterRules(validate)
	return validate
}

func TestUsernameRule(t *testing.T) {
	validate := newEngine(t)

	tests := []struct {
		value string
		valid bool
	}{
		{"alice", true},
		{"alice_2024", true},
		{"Al", false},
		{"1alice", false},
		{"_alice", false},
		{"alice!", false},
		{"", true}, // required handles empty
	}
	for _, tt := range tests {
		err := validate.Var(tt.value, TagUsername)
		assert.Equal(t, tt.valid, err == nil, "value %q", tt.value)
	}
}

func TestStrongPasswordRule(t *testing.T) {
	validate := newEngine(t)

	tests := []struct {
		value string
		valid bool
	}{
		{"S3cure#Pass1", true},
		{"Aa1!aaaa", true},
		{"short1A!", true},
		{"Aa1!aaa", false},     // too short
		{"alllower1!", false},  // no upper
		{"ALLUPPER1!", false},  // no lower
		{"NoDigits!!", false},  // no digit
		{"NoSpecial11", false}, // no special
		{"", true},
	}
	for _, tt := range tests {
		err := validate.Var(tt.value, TagStrongPwd)
		assert.Equal(t, tt.valid, err == nil, "value %q", tt.value)
	}
}

func TestMobileRule(t *testing.T) {
	validate := newEngine(t)

	assert.NoError(t, validate.Var("13812345678", TagMobile))
	assert.Error(t, validate.Var("12812345678", TagMobile))
	assert.Error(t, validate.Var("1381234567", TagMobile))
	assert.NoError(t, validate.Var("", TagMobile))
}

func TestSlugRule(t *testing.T) {
	validate := newEngine(t)

	assert.NoError(t, validate.Var("user-management", TagSlug))
	assert.NoError(t, validate.Var("acme2", TagSlug))
	assert.Error(t, validate.Var("User-Management", TagSlug))
	assert.Error(t, validate.Var("-leading", TagSlug))
	assert.Error(t, validate.Var("trailing-", TagSlug))
}
