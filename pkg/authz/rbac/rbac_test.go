package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testContext() *Context {
	return &Context{
		UserID:      1,
		TenantID:    10,
		Roles:       []string{"ADMIN", "AUDITOR"},
		Permissions: []string{"USER_CREATE", "USER_DELETE", "USER_VIEW"},
	}
}

func TestContext_HasPermission(t *testing.T) {
	c := testContext()

	assert.True(t, c.HasPermission("USER_VIEW"))
	assert.False(t, c.HasPermission("USER_EXPORT"))
	assert.False(t, c.HasPermission("user_view"), "codes are case-sensitive")
	assert.False(t, c.HasPermission(""))
}

func TestContext_HasAnyPermission(t *testing.T) {
	c := testContext()

	tests := []struct {
		name  string
		codes []string
		want  bool
	}{
		{"one match", []string{"USER_VIEW"}, true},
		{"match among misses", []string{"ORDER_VIEW", "USER_DELETE"}, true},
		{"no match", []string{"ORDER_VIEW", "ORDER_EDIT"}, false},
		{"empty input is unsatisfiable", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.HasAnyPermission(tt.codes...))
		})
	}
}

func TestContext_HasAllPermissions(t *testing.T) {
	c := testContext()

	tests := []struct {
		name  string
		codes []string
		want  bool
	}{
		{"all present", []string{"USER_VIEW", "USER_CREATE"}, true},
		{"one missing", []string{"USER_VIEW", "ORDER_VIEW"}, false},
		{"empty input is vacuously true", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.HasAllPermissions(tt.codes...))
		})
	}
}

func TestContext_RolePredicates(t *testing.T) {
	c := testContext()

	assert.True(t, c.HasRole("ADMIN"))
	assert.False(t, c.HasRole("OPERATOR"))
	assert.True(t, c.HasAnyRole("OPERATOR", "AUDITOR"))
	assert.False(t, c.HasAnyRole())
	assert.True(t, c.HasAllRoles("ADMIN", "AUDITOR"))
	assert.False(t, c.HasAllRoles("ADMIN", "OPERATOR"))
	assert.True(t, c.HasAllRoles())
}

func TestContext_EmptyContext(t *testing.T) {
	c := &Context{UserID: 2}

	assert.False(t, c.HasPermission("USER_VIEW"))
	assert.False(t, c.HasAnyPermission("USER_VIEW"))
	assert.True(t, c.HasAllPermissions())
	assert.False(t, c.HasRole("ADMIN"))
}

func TestContext_Allows(t *testing.T) {
	c := testContext()

	tests := []struct {
		name string
		req  Requirement
		want bool
	}{
		{"single hit", Single("USER_VIEW"), true},
		{"single miss", Single("ORDER_VIEW"), false},
		{"any hit", AnyOf("ORDER_VIEW", "USER_VIEW"), true},
		{"any miss", AnyOf("ORDER_VIEW"), false},
		{"any empty never satisfied", AnyOf(), false},
		{"all hit", AllOf("USER_VIEW", "USER_DELETE"), true},
		{"all miss", AllOf("USER_VIEW", "ORDER_VIEW"), false},
		{"all empty always satisfied", AllOf(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Allows(tt.req))
		})
	}
}

func TestRequirement_Codes(t *testing.T) {
	req := AnyOf("A", "B")
	codes := req.Codes()
	codes[0] = "mutated"

	assert.Equal(t, []string{"A", "B"}, req.Codes(), "Codes returns a copy")
}
