package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/vidvault/vidvault/internal/model"
)

var (
	ErrCompanyNotFound  = errors.New("company not found")
	ErrDuplicateCompany = errors.New("company already exists")
)

type CompanyRepository interface {
	Create(company *model.Company) error
	ByID(id string) (*model.Company, error)
	ByName(name string) (*model.Company, error)
	Stats(id string) (*model.CompanyStats, error)
	ListStats() ([]*model.CompanyStats, error)
	Delete(id string) error
}

type companyRepository struct {
	db *sqlx.DB
}

func NewCompanyRepository(db *sqlx.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Create(company *model.Company) error {
	query := `INSERT INTO companies (id, name, created_at) VALUES ($1, $2, $3)`

	_, err := r.db.Exec(query, company.ID, company.Name, company.CreatedAt)
	if err != nil {
		errStr := err.Error()
		if containsUniqueViolation(errStr) {
			return ErrDuplicateCompany
		}
		return err
	}

	return nil
}

func (r *companyRepository) ByID(id string) (*model.Company, error) {
	company := &model.Company{}
	query := `SELECT * FROM companies WHERE id = $1`

	err := r.db.Get(company, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrCompanyNotFound
	}

	return company, err
}

// ByName matches case-insensitively, mirroring the unique index on
// LOWER(name).
func (r *companyRepository) ByName(name string) (*model.Company, error) {
	company := &model.Company{}
	query := `SELECT * FROM companies WHERE LOWER(name) = LOWER($1)`

	err := r.db.Get(company, query, name)
	if err == sql.ErrNoRows {
		return nil, ErrCompanyNotFound
	}

	return company, err
}

// Stats returns one company with its member and video counts. The counts
// come from a single statement so they describe the same snapshot.
func (r *companyRepository) Stats(id string) (*model.CompanyStats, error) {
	stats := &model.CompanyStats{}
	query := `
		SELECT c.id, c.name, c.created_at,
		       (SELECT COUNT(*) FROM users u WHERE u.company_id = c.id) AS member_count,
		       (SELECT COUNT(*) FROM videos v WHERE v.company_id = c.id) AS video_count
		FROM companies c
		WHERE c.id = $1
	`

	err := r.db.Get(stats, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrCompanyNotFound
	}

	return stats, err
}

func (r *companyRepository) ListStats() ([]*model.CompanyStats, error) {
	var list []*model.CompanyStats
	query := `
		SELECT c.id, c.name, c.created_at,
		       (SELECT COUNT(*) FROM users u WHERE u.company_id = c.id) AS member_count,
		       (SELECT COUNT(*) FROM videos v WHERE v.company_id = c.id) AS video_count
		FROM companies c
		ORDER BY c.name
	`

	err := r.db.Select(&list, query)
	if err != nil {
		return nil, err
	}

	return list, nil
}

func (r *companyRepository) Delete(id string) error {
	query := `DELETE FROM companies WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrCompanyNotFound
	}

	return nil
}
