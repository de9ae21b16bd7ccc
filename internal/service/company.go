package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidvault/vidvault/internal/model"
	"github.com/vidvault/vidvault/internal/repository"
	"github.com/vidvault/vidvault/internal/validation"
)

var (
	ErrCompanyHasMembers      = errors.New("company still has members")
	ErrCompanyHasVideos       = errors.New("company still has videos")
	ErrCannotDeleteOwnCompany = errors.New("cannot delete your own company")
)

// CompanyService is the tenant directory.
type CompanyService struct {
	companies repository.CompanyRepository
}

func NewCompanyService(companies repository.CompanyRepository) *CompanyService {
	return &CompanyService{companies: companies}
}

// FindOrCreate resolves a company by case-insensitive name, creating it on
// first use. The name is trimmed and length-bounded.
func (s *CompanyService) FindOrCreate(name string) (*model.Company, error) {
	err := validation.ValidateCompanyName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	name = strings.TrimSpace(name)

	company, err := s.companies.ByName(name)
	if err == nil {
		return company, nil
	}
	if !errors.Is(err, repository.ErrCompanyNotFound) {
		return nil, fmt.Errorf("failed to lookup company: %w", err)
	}

	company = &model.Company{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	}

	err = s.companies.Create(company)
	if errors.Is(err, repository.ErrDuplicateCompany) {
		// Lost a create race; the winner's row is the company
		return s.companies.ByName(name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	slog.Info("company created", "company_id", company.ID, "name", name)
	return company, nil
}

func (s *CompanyService) ByID(id string) (*model.Company, error) {
	return s.companies.ByID(id)
}

// Stats returns one company with its member and video counts.
func (s *CompanyService) Stats(id string) (*model.CompanyStats, error) {
	return s.companies.Stats(id)
}

// List returns all companies with member and video counts; each row's
// counts come from one consistent snapshot.
func (s *CompanyService) List() ([]*model.CompanyStats, error) {
	return s.companies.ListStats()
}

// Delete removes a company. It refuses while any user or video still
// references it, and refuses the caller's own company outright.
func (s *CompanyService) Delete(id string, caller *model.User) error {
	if caller.CompanyID != nil && *caller.CompanyID == id {
		return ErrCannotDeleteOwnCompany
	}

	stats, err := s.companies.Stats(id)
	if err != nil {
		return err
	}

	if stats.MemberCount > 0 {
		return ErrCompanyHasMembers
	}
	if stats.VideoCount > 0 {
		return ErrCompanyHasVideos
	}

	err = s.companies.Delete(id)
	if err != nil {
		return err
	}

	slog.Info("company deleted", "company_id", id, "by", caller.ID)
	return nil
}
