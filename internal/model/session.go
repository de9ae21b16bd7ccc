package model

import (
	"time"
)

// Session is an opaque server-side login token. The token column carries
// 256 bits of entropy (64 hex chars) and is the primary key.
type Session struct {
	Token     string    `db:"token"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
