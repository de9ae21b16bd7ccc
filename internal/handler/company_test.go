package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vidvault/vidvault/internal/ctxkeys"
	"github.com/vidvault/vidvault/internal/model"
	"github.com/vidvault/vidvault/internal/repository"
	"github.com/vidvault/vidvault/internal/service"
)

type companyRepoFake struct {
	stats map[string]*model.CompanyStats
}

func (f *companyRepoFake) Create(company *model.Company) error { return nil }

func (f *companyRepoFake) ByID(id string) (*model.Company, error) {
	s, ok := f.stats[id]
	if !ok {
		return nil, repository.ErrCompanyNotFound
	}
	return &s.Company, nil
}

func (f *companyRepoFake) ByName(name string) (*model.Company, error) {
	return nil, repository.ErrCompanyNotFound
}

func (f *companyRepoFake) Stats(id string) (*model.CompanyStats, error) {
	s, ok := f.stats[id]
	if !ok {
		return nil, repository.ErrCompanyNotFound
	}
	return s, nil
}

func (f *companyRepoFake) ListStats() ([]*model.CompanyStats, error) {
	out := make([]*model.CompanyStats, 0, len(f.stats))
	for _, s := range f.stats {
		out = append(out, s)
	}
	return out, nil
}

func (f *companyRepoFake) Delete(id string) error {
	if _, ok := f.stats[id]; !ok {
		return repository.ErrCompanyNotFound
	}
	delete(f.stats, id)
	return nil
}

func newCompanyShowFixture() *CompanyHandler {
	companies := &companyRepoFake{stats: map[string]*model.CompanyStats{
		"co-1": {Company: model.Company{ID: "co-1", Name: "Acme"}, MemberCount: 2, VideoCount: 5},
		"co-2": {Company: model.Company{ID: "co-2", Name: "Rival"}, MemberCount: 1},
	}}
	return NewCompanyHandler(service.NewCompanyService(companies), nil)
}

func showCompany(h *CompanyHandler, user *model.User, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/companies/"+id, nil)
	req.SetPathValue("id", id)
	req = req.WithContext(ctxkeys.WithUser(req.Context(), user))
	rec := httptest.NewRecorder()
	h.Show(rec, req)
	return rec
}

func TestCompanyShowOwnCompany(t *testing.T) {
	h := newCompanyShowFixture()
	companyID := "co-1"
	member := &model.User{ID: "user-1", Role: model.RoleUser, CompanyID: &companyID}

	rec := showCompany(h, member, "co-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CompanyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Acme", resp.Name)
	require.Equal(t, 2, resp.MemberCount)
	require.Equal(t, 5, resp.VideoCount)
}

func TestCompanyShowOtherCompanyDenied(t *testing.T) {
	h := newCompanyShowFixture()
	companyID := "co-1"
	member := &model.User{ID: "user-1", Role: model.RoleUser, CompanyID: &companyID}

	rec := showCompany(h, member, "co-2")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCompanyShowNoCompanyDenied(t *testing.T) {
	h := newCompanyShowFixture()
	loner := &model.User{ID: "user-2", Role: model.RoleManager}

	rec := showCompany(h, loner, "co-1")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCompanyShowAdminAnyCompany(t *testing.T) {
	h := newCompanyShowFixture()
	admin := &model.User{ID: "admin-1", Role: model.RoleAdmin}

	rec := showCompany(h, admin, "co-2")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCompanyShowUnknown(t *testing.T) {
	h := newCompanyShowFixture()
	companyID := "co-9"
	member := &model.User{ID: "user-1", Role: model.RoleUser, CompanyID: &companyID}

	rec := showCompany(h, member, "co-9")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
