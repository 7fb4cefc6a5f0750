package services

import (
	"errors"
	"unicode"

	"github.com/mpetrenko/visitboard/internal/constants"
)

var (
	ErrInvalidUsername = errors.New("username must be at least 5 characters of latin letters and digits")
	ErrInvalidPassword = errors.New("password must be 8-128 characters with an upper-case letter, a lower-case letter and a digit, without spaces")
)

// ValidateUsername enforces the account naming rule: latin letters and
// digits only, minimum length 5.
func ValidateUsername(username string) error {
	if len(username) < constants.MinUsernameLength {
		return ErrInvalidUsername
	}
	for _, r := range username {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !isAlnum {
			return ErrInvalidUsername
		}
	}
	return nil
}

// ValidatePassword enforces the password complexity rule: length 8-128,
// at least one upper-case letter, one lower-case letter and one digit,
// no whitespace.
func ValidatePassword(password string) error {
	runes := []rune(password)
	if len(runes) < constants.MinPasswordLength || len(runes) > constants.MaxPasswordLength {
		return ErrInvalidPassword
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range runes {
		switch {
		case unicode.IsSpace(r):
			return ErrInvalidPassword
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return ErrInvalidPassword
	}
	return nil
}
