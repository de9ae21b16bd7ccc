package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/vidvault/vidvault/internal/model"
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

type SessionRepository interface {
	Create(session *model.Session) error
	ByToken(token string) (*model.Session, error)
	UpdateExpiry(token string, expiresAt time.Time) error
	Delete(token string) error
	DeleteExpired(now time.Time) (int64, error)
}

type sessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *model.Session) error {
	query := `INSERT INTO sessions (token, user_id, created_at, expires_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(query, session.Token, session.UserID, session.CreatedAt, session.ExpiresAt)
	return err
}

func (r *sessionRepository) ByToken(token string) (*model.Session, error) {
	session := &model.Session{}
	query := `SELECT * FROM sessions WHERE token = $1`

	err := r.db.Get(session, query, token)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}

	return session, err
}

func (r *sessionRepository) UpdateExpiry(token string, expiresAt time.Time) error {
	query := `UPDATE sessions SET expires_at = $1 WHERE token = $2`

	result, err := r.db.Exec(query, expiresAt, token)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// Delete is idempotent: removing an absent token is not an error.
func (r *sessionRepository) Delete(token string) error {
	query := `DELETE FROM sessions WHERE token = $1`
	_, err := r.db.Exec(query, token)
	return err
}

func (r *sessionRepository) DeleteExpired(now time.Time) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at < $1`

	result, err := r.db.Exec(query, now)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
