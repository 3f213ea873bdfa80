// Package validator provides the custom validation rules used by the
// request DTOs. The rules are registered on gin's binding engine at
// startup so struct tags like `binding:"username"` resolve.
package validator

import (
	"regexp"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Custom validation tags.
const (
	TagMobile    = "mobile"    // Chinese mobile phone number
	TagUsername  = "username"  // letter first, alphanumeric or underscore, 3-32 chars
	TagStrongPwd = "strongpwd" // min 8 chars with upper, lower, digit and special
	TagSlug      = "slug"      // lowercase alphanumeric segments joined by hyphens
)

var (
	mobileRegex   = regexp.MustCompile(`^1[3-9]\d{9}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]{2,31}$`)
	slugRegex     = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// RegisterRules registers the custom validation rules on a validator
// engine, such as gin's binding engine.
func RegisterRules(validate *validator.Validate) {
	_ = validate.RegisterValidation(TagMobile, validateMobile)
	_ = validate.RegisterValidation(TagUsername, validateUsername)
	_ = validate.RegisterValidation(TagStrongPwd, validateStrongPassword)
	_ = validate.RegisterValidation(TagSlug, validateSlug)
}

// validateMobile validates Chinese mobile phone numbers.
func validateMobile(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Let 'required' handle empty values
	}
	return mobileRegex.MatchString(value)
}

// validateUsername validates username format.
func validateUsername(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return usernameRegex.MatchString(value)
}

// validateStrongPassword validates strong password requirements.
// At least 8 characters, containing uppercase, lowercase, digit, and
// special character.
func validateStrongPassword(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}

	if len(value) < 8 {
		return false
	}

	hasUpper := false
	hasLower := false
	hasDigit := false
	hasSpecial := false

	for _, char := range value {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	return hasUpper && hasLower && hasDigit && hasSpecial
}

// validateSlug validates URL slug format.
func validateSlug(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return slugRegex.MatchString(value)
}
