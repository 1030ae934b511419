package validator

import (
	"net/mail"
	"regexp"
	"strings"
)

var (
	uppercaseRegex   = regexp.MustCompile(`[A-Z]`)
	lowercaseRegex   = regexp.MustCompile(`[a-z]`)
	digitRegex       = regexp.MustCompile(`[0-9]`)
	specialCharRegex = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// ValidEmail checks that the value parses as a bare email address.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return false
			}

			addr, err := mail.ParseAddress(value)
			if err != nil {
				return false
			}

			// Reject display-name forms like "Name <a@b.c>".
			return addr.Address == value
		},
		Error: ValidationError{
			Field:   field,
			Message: "must be a valid email address",
		},
	}
}

// PasswordStrengthConfig controls password requirements.
type PasswordStrengthConfig struct {
	MinLength      int
	MaxLength      int
	MinCharClasses int // Minimum number of different character classes required
}

// DefaultPasswordStrength returns the default policy: 8-128 chars,
// at least 2 character classes.
func DefaultPasswordStrength() PasswordStrengthConfig {
	return PasswordStrengthConfig{
		MinLength:      8,
		MaxLength:      128,
		MinCharClasses: 2,
	}
}

// StrongPassword checks the value against the given strength policy.
func StrongPassword(field, value string, config PasswordStrengthConfig) Rule {
	return Rule{
		Check: func() bool {
			if len(value) < config.MinLength || len(value) > config.MaxLength {
				return false
			}

			classes := 0
			if uppercaseRegex.MatchString(value) {
				classes++
			}
			if lowercaseRegex.MatchString(value) {
				classes++
			}
			if digitRegex.MatchString(value) {
				classes++
			}
			if specialCharRegex.MatchString(value) {
				classes++
			}

			return classes >= config.MinCharClasses
		},
		Error: ValidationError{
			Field:   field,
			Message: "password does not meet strength requirements",
		},
	}
}

// NotEmpty checks that the value is not blank.
func NotEmpty(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: ValidationError{
			Field:   field,
			Message: "must not be empty",
		},
	}
}
