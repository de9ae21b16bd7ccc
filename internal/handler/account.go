package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/vidvault/vidvault/internal/ctxkeys"
	"github.com/vidvault/vidvault/internal/model"
	"github.com/vidvault/vidvault/internal/repository"
	"github.com/vidvault/vidvault/internal/service"
)

type AccountHandler struct {
	auth *service.AuthService
}

func NewAccountHandler(auth *service.AuthService) *AccountHandler {
	return &AccountHandler{auth: auth}
}

// Me handles GET /me.
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// UpdateMe handles PATCH /me. Role and company changes are admin-only;
// a non-admin sending them gets 403.
func (h *AccountHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	params := service.UpdateProfileParams{
		Username:  req.Username,
		Email:     req.Email,
		CompanyID: req.CompanyID,
	}
	if req.Role != nil {
		role, err := model.ParseRole(*req.Role)
		if err != nil {
			writeErrorJSON(w, http.StatusBadRequest, "unknown role")
			return
		}
		params.Role = &role
	}

	updated, err := h.auth.UpdateProfile(user, user.ID, params)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAdminRequired):
			writeErrorJSON(w, http.StatusForbidden, "admin privileges required")
		case errors.Is(err, service.ErrInvalidInput):
			writeErrorJSON(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrDuplicateUsername):
			writeErrorJSON(w, http.StatusConflict, "username already taken")
		case errors.Is(err, repository.ErrDuplicateEmail):
			writeErrorJSON(w, http.StatusConflict, "email already registered")
		case errors.Is(err, repository.ErrCompanyNotFound):
			writeErrorJSON(w, http.StatusBadRequest, "unknown company")
		default:
			slog.Error("profile update failed", "error", err)
			writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(updated))
}

// ChangePassword handles POST /me/password. The current credential must
// verify before the replacement is accepted.
func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword))
	if err != nil {
		writeErrorJSON(w, http.StatusUnauthorized, "current password is incorrect")
		return
	}

	err = h.auth.ChangePassword(user.ID, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			writeErrorJSON(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("password change failed", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "password changed"})
}
