package service

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vidvault/vidvault/internal/model"
	"github.com/vidvault/vidvault/internal/repository"
)

func TestFindOrCreateReturnsExisting(t *testing.T) {
	companies := new(CompanyRepoMock)
	svc := NewCompanyService(companies)

	existing := &model.Company{ID: "co-1", Name: "Acme"}
	companies.On("ByName", "Acme").Return(existing, nil)

	got, err := svc.FindOrCreate("  Acme  ")
	require.NoError(t, err)
	require.Same(t, existing, got)
	companies.AssertNotCalled(t, "Create", mock.Anything)
}

func TestFindOrCreateCreatesNew(t *testing.T) {
	companies := new(CompanyRepoMock)
	svc := NewCompanyService(companies)

	companies.On("ByName", "Acme").Return(nil, repository.ErrCompanyNotFound)

	var created *model.Company
	companies.On("Create", mock.AnythingOfType("*model.Company")).Run(func(args mock.Arguments) {
		created = args.Get(0).(*model.Company)
	}).Return(nil)

	got, err := svc.FindOrCreate("Acme")
	require.NoError(t, err)
	require.Same(t, created, got)
	require.Equal(t, "Acme", got.Name)
	require.NotEmpty(t, got.ID)
}

func TestFindOrCreateLosesRace(t *testing.T) {
	companies := new(CompanyRepoMock)
	svc := NewCompanyService(companies)

	winner := &model.Company{ID: "co-1", Name: "Acme"}
	companies.On("ByName", "Acme").Return(nil, repository.ErrCompanyNotFound).Once()
	companies.On("Create", mock.Anything).Return(repository.ErrDuplicateCompany)
	companies.On("ByName", "Acme").Return(winner, nil).Once()

	got, err := svc.FindOrCreate("Acme")
	require.NoError(t, err)
	require.Same(t, winner, got)
}

func TestFindOrCreateValidatesName(t *testing.T) {
	companies := new(CompanyRepoMock)
	svc := NewCompanyService(companies)

	_, err := svc.FindOrCreate("A")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.FindOrCreate("   ")
	require.ErrorIs(t, err, ErrInvalidInput)

	companies.AssertNotCalled(t, "ByName", mock.Anything)
}

func TestCompanyDeleteEmpty(t *testing.T) {
	companies := new(CompanyRepoMock)
	svc := NewCompanyService(companies)

	admin := &model.User{ID: "admin-1", Role: model.RoleAdmin}

	companies.On("Stats", "co-2").Return(&model.CompanyStats{
		Company: model.Company{ID: "co-2", Name: "Empty Inc"},
	}, nil)
	companies.On("Delete", "co-2").Return(nil)

	require.NoError(t, svc.Delete("co-2", admin))
	companies.AssertExpectations(t)
}

func TestCompanyDeleteRefusesMembers(t *testing.T) {
	companies := new(CompanyRepoMock)
	svc := NewCompanyService(companies)

	admin := &model.User{ID: "admin-1", Role: model.RoleAdmin}

	companies.On("Stats", "co-2").Return(&model.CompanyStats{
		Company:     model.Company{ID: "co-2"},
		MemberCount: 3,
	}, nil)

	require.ErrorIs(t, svc.Delete("co-2", admin), ErrCompanyHasMembers)
	companies.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestCompanyDeleteRefusesVideos(t *testing.T) {
	companies := new(CompanyRepoMock)
	svc := NewCompanyService(companies)

	admin := &model.User{ID: "admin-1", Role: model.RoleAdmin}

	companies.On("Stats", "co-2").Return(&model.CompanyStats{
		Company:    model.Company{ID: "co-2"},
		VideoCount: 1,
	}, nil)

	require.ErrorIs(t, svc.Delete("co-2", admin), ErrCompanyHasVideos)
	companies.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestCompanyDeleteRefusesOwnCompany(t *testing.T) {
	companies := new(CompanyRepoMock)
	svc := NewCompanyService(companies)

	own := "co-1"
	admin := &model.User{ID: "admin-1", Role: model.RoleAdmin, CompanyID: &own}

	require.ErrorIs(t, svc.Delete("co-1", admin), ErrCannotDeleteOwnCompany)
	companies.AssertNotCalled(t, "Stats", mock.Anything)
}

func TestCompanyDeleteUnknown(t *testing.T) {
	companies := new(CompanyRepoMock)
	svc := NewCompanyService(companies)

	admin := &model.User{ID: "admin-1", Role: model.RoleAdmin}
	companies.On("Stats", "nope").Return(nil, repository.ErrCompanyNotFound)

	require.ErrorIs(t, svc.Delete("nope", admin), repository.ErrCompanyNotFound)
}
