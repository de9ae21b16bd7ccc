package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/vidvault/vidvault/internal/authz"
	"github.com/vidvault/vidvault/internal/ctxkeys"
	"github.com/vidvault/vidvault/internal/repository"
	"github.com/vidvault/vidvault/internal/service"
)

type CompanyHandler struct {
	companies *service.CompanyService
	users     repository.UserRepository
}

func NewCompanyHandler(companies *service.CompanyService, users repository.UserRepository) *CompanyHandler {
	return &CompanyHandler{companies: companies, users: users}
}

// List handles GET /admin/companies: every company with member and
// video counts.
func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	stats, err := h.companies.List()
	if err != nil {
		slog.Error("company listing failed", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]CompanyResponse, 0, len(stats))
	for _, s := range stats {
		out = append(out, toCompanyResponse(s))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /admin/companies/{id}.
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	stats, err := h.companies.Stats(id)
	if err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			writeErrorJSON(w, http.StatusNotFound, "company not found")
			return
		}
		slog.Error("company lookup failed", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toCompanyResponse(stats))
}

// Show handles GET /companies/{id}: a company's directory entry with
// member and video counts, visible to that company's own members and
// to admins.
func (h *CompanyHandler) Show(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	id := r.PathValue("id")

	decision := authz.Decide(authz.SubjectFromUser(user), authz.OpAdminister, authz.Resource{CompanyID: &id})
	if !decision.Allowed {
		writeErrorJSON(w, http.StatusForbidden, decision.Reason)
		return
	}

	stats, err := h.companies.Stats(id)
	if err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			writeErrorJSON(w, http.StatusNotFound, "company not found")
			return
		}
		slog.Error("company lookup failed", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toCompanyResponse(stats))
}

// Delete handles DELETE /admin/companies/{id}. Companies holding
// members or videos are protected, as is the caller's own company.
func (h *CompanyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	id := r.PathValue("id")

	err := h.companies.Delete(id, user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCompanyNotFound):
			writeErrorJSON(w, http.StatusNotFound, "company not found")
		case errors.Is(err, service.ErrCompanyHasMembers):
			writeErrorJSON(w, http.StatusConflict, "company still has members")
		case errors.Is(err, service.ErrCompanyHasVideos):
			writeErrorJSON(w, http.StatusConflict, "company still has videos")
		case errors.Is(err, service.ErrCannotDeleteOwnCompany):
			writeErrorJSON(w, http.StatusConflict, "cannot delete your own company")
		default:
			slog.Error("company delete failed", "error", err)
			writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Users handles GET /admin/users: the member roster, optionally
// filtered to one company.
func (h *CompanyHandler) Users(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("company_id")

	if companyID != "" {
		members, err := h.users.ByCompany(companyID)
		if err != nil {
			slog.Error("user listing failed", "error", err)
			writeErrorJSON(w, http.StatusInternalServerError, "internal error")
			return
		}
		out := make([]UserResponse, 0, len(members))
		for _, u := range members {
			out = append(out, toUserResponse(u))
		}
		writeJSON(w, http.StatusOK, out)
		return
	}

	all, err := h.users.All()
	if err != nil {
		slog.Error("user listing failed", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}
	out := make([]UserResponse, 0, len(all))
	for _, u := range all {
		out = append(out, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, out)
}
