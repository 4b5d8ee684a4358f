package models

import (
	"regexp"
	"time"
	"unicode"
)

// User represents a credential identity. Immutable after registration.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.\-]{3,50}$`)

// ValidateUsername rejects usernames outside 3-50 chars of [a-zA-Z0-9_.-].
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return NewValidationError("username", "must be 3-50 characters (letters, digits, underscore, dot, dash)")
	}
	return nil
}

// ValidatePassword enforces the strength policy: at least 8 characters with
// upper case, lower case, a digit and a special character.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return NewValidationError("password", "must be at least 8 characters")
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return NewValidationError("password", "must contain upper case, lower case, a digit and a special character")
	}
	return nil
}
