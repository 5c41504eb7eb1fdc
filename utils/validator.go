package utils

import (
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	// Register custom rules on Gin's binding engine so struct tags pick
	// them up.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("password", validatePassword)
	}
}

// validatePassword enforces the server-side password policy: at least 6
// characters with one upper, one lower, one digit and one symbol.
func validatePassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()

	if len(password) < 6 {
		return false
	}

	var (
		hasUpper   bool
		hasLower   bool
		hasNumber  bool
		hasSpecial bool
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	return hasUpper && hasLower && hasNumber && hasSpecial
}

// NormalizeEmail lowercases an email for storage and lookups. Email
// uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HasAllowedEmailDomain reports whether the email ends with the institutional
// domain suffix, case-insensitive.
func HasAllowedEmailDomain(email, domain string) bool {
	return strings.HasSuffix(strings.ToLower(email), strings.ToLower(domain))
}

// LimitStringLength truncates a string to maxLength bytes.
func LimitStringLength(input string, maxLength int) string {
	if len(input) <= maxLength {
		return input
	}
	return input[:maxLength]
}
