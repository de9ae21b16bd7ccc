package validation

import (
	"errors"
	"strings"
)

// ValidateCompanyName validates a trimmed company name against the
// 2-100 character bounds.
func ValidateCompanyName(name string) error {
	trimmed := strings.TrimSpace(name)

	if len(trimmed) < 2 {
		return errors.New("company name must be at least 2 characters")
	}

	if len(trimmed) > 100 {
		return errors.New("company name is too long (max 100 characters)")
	}

	return nil
}
