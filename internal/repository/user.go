package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/vidvault/vidvault/internal/model"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
)

type UserRepository interface {
	Create(user *model.User) error
	ByID(id string) (*model.User, error)
	ByUsername(username string) (*model.User, error)
	ByEmail(email string) (*model.User, error)
	ByGoogleID(googleID string) (*model.User, error)
	ByCompany(companyID string) ([]*model.User, error)
	All() ([]*model.User, error)
	Update(user *model.User) error
	Delete(id string) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	query := `INSERT INTO users (id, username, email, password_hash, company_id, role, google_id, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CompanyID,
		user.Role,
		user.GoogleID,
		user.CreatedAt,
	)
	if err != nil {
		return mapUniqueViolation(err)
	}

	return nil
}

func (r *userRepository) ByID(id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.Get(user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) ByUsername(username string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE username = $1`

	err := r.db.Get(user, query, username)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) ByEmail(email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE email = $1`

	err := r.db.Get(user, query, email)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) ByGoogleID(googleID string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE google_id = $1`

	err := r.db.Get(user, query, googleID)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) ByCompany(companyID string) ([]*model.User, error) {
	var users []*model.User
	query := `SELECT * FROM users WHERE company_id = $1 ORDER BY username`

	err := r.db.Select(&users, query, companyID)
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) All() ([]*model.User, error) {
	var users []*model.User
	query := `SELECT * FROM users ORDER BY username`

	err := r.db.Select(&users, query)
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) Update(user *model.User) error {
	query := `UPDATE users SET username = $1, email = $2, password_hash = $3, company_id = $4, role = $5, google_id = $6 WHERE id = $7`

	_, err := r.db.Exec(query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CompanyID,
		user.Role,
		user.GoogleID,
		user.ID,
	)
	if err != nil {
		return mapUniqueViolation(err)
	}

	return nil
}

func (r *userRepository) Delete(id string) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

// mapUniqueViolation translates driver-specific unique-constraint errors
// into the repository's sentinel errors (works for both SQLite and
// PostgreSQL message formats).
func mapUniqueViolation(err error) error {
	errStr := err.Error()
	if !strings.Contains(errStr, "UNIQUE constraint failed") && !strings.Contains(errStr, "duplicate key value") {
		return err
	}

	switch {
	case strings.Contains(errStr, "username"):
		return ErrDuplicateUsername
	case strings.Contains(errStr, "email"):
		return ErrDuplicateEmail
	}
	return err
}
