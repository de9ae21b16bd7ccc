package service

import (
	"errors"
)

var (
	// ErrInvalidInput wraps user-correctable shape/length failures so
	// handlers can map them to a 400 without knowing each validator.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAdminRequired marks operations reserved for the admin role.
	ErrAdminRequired = errors.New("admin role required")
)
