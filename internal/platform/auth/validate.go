package auth

import (
	"regexp"
	"strings"
	"unicode"

	"libris-backend/internal/platform/apierr"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func validateEmail(email string) error {
	if !emailRe.MatchString(email) {
		return apierr.ErrInvalid("Invalid email format.")
	}
	return nil
}

// validatePassword requires at least 8 characters with an upper case letter,
// a lower case letter and a digit.
func validatePassword(pw string) error {
	if len([]rune(pw)) < 8 {
		return apierr.ErrInvalid("Password must be at least 8 characters long.")
	}
	var upper, lower, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return apierr.ErrInvalid("Password must contain upper case, lower case and numeric characters.")
	}
	return nil
}
