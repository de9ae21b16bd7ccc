package validation

import (
	"errors"
)

// ValidatePassword validates password length bounds
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	// bcrypt silently truncates past 72 bytes, so longer inputs are rejected
	if len(password) > 72 {
		return errors.New("password must not exceed 72 characters")
	}

	return nil
}
