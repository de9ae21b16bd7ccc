package model

import (
	"fmt"
	"time"
)

// Role is the closed set of privilege levels. The decision rules in
// internal/authz key off this value; anything outside the set is rejected
// at parse time.
type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleManager, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

type User struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	Email        *string   `db:"email"` // Nullable: external-identity accounts may lack one
	PasswordHash string    `db:"password_hash"`
	CompanyID    *string   `db:"company_id"`
	Role         Role      `db:"role"`
	GoogleID     *string   `db:"google_id"`
	CreatedAt    time.Time `db:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
