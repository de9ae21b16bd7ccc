package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/vidvault/vidvault/internal/config"
	"github.com/vidvault/vidvault/internal/ctxkeys"
	"github.com/vidvault/vidvault/internal/middleware"
	"github.com/vidvault/vidvault/internal/model"
	"github.com/vidvault/vidvault/internal/repository"
	"github.com/vidvault/vidvault/internal/service"
)

type AuthHandler struct {
	auth              *service.AuthService
	sessions          *service.SessionService
	cfg               *config.Config
	googleOAuthConfig *oauth2.Config
}

func NewAuthHandler(auth *service.AuthService, sessions *service.SessionService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		sessions: sessions,
		cfg:      cfg,
		googleOAuthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.AppURL + "/auth/google/callback",
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// Register handles POST /auth/register. Self-registration always yields
// the base role; privileged roles are assigned by an admin afterwards.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.auth.Register(req.Username, req.Email, req.Password, req.CompanyName, model.RoleUser)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			writeErrorJSON(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrDuplicateUsername):
			writeErrorJSON(w, http.StatusConflict, "username already taken")
		case errors.Is(err, repository.ErrDuplicateEmail):
			writeErrorJSON(w, http.StatusConflict, "email already registered")
		default:
			slog.Error("registration failed", "error", err)
			writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	h.issueSession(w, r, user, http.StatusCreated)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeErrorJSON(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		slog.Error("login failed", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.issueSession(w, r, user, http.StatusOK)
}

// Logout handles POST /auth/logout. Destroying an already-dead session
// still succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session := ctxkeys.Session(r.Context()); session != nil {
		err := h.sessions.Destroy(session.Token)
		if err != nil {
			slog.Error("logout failed", "error", err)
			writeErrorJSON(w, http.StatusInternalServerError, "internal error")
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Extend handles POST /auth/extend: pushes the current session's expiry
// out by a full lifetime.
func (h *AuthHandler) Extend(w http.ResponseWriter, r *http.Request) {
	session := ctxkeys.Session(r.Context())
	if session == nil {
		writeErrorJSON(w, http.StatusUnauthorized, "authentication required")
		return
	}

	err := h.sessions.Extend(session.Token)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			writeErrorJSON(w, http.StatusUnauthorized, "session no longer exists")
			return
		}
		slog.Error("session extend failed", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "extended"})
}

// GoogleLogin handles GET /auth/google: redirects to Google's consent
// screen with a CSRF state cookie.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.cfg.GoogleClientID == "" {
		writeErrorJSON(w, http.StatusNotImplemented, "google login is not configured")
		return
	}

	state := generateOAuthState()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	url := h.googleOAuthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// GoogleCallback handles GET /auth/google/callback.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	// Validate state parameter for CSRF protection
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie("oauth_state")
	if err != nil || cookie.Value != state || state == "" {
		slog.Warn("google oauth state validation failed", "error", err)
		writeErrorJSON(w, http.StatusBadRequest, "invalid oauth state")
		return
	}

	// Clear state cookie
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Warn("google oauth callback missing code")
		writeErrorJSON(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	token, err := h.googleOAuthConfig.Exchange(context.Background(), code)
	if err != nil {
		slog.Error("google oauth token exchange failed", "error", err)
		writeErrorJSON(w, http.StatusBadGateway, "oauth exchange failed")
		return
	}

	client := h.googleOAuthConfig.Client(context.Background(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		slog.Error("failed to get google user info", "error", err)
		writeErrorJSON(w, http.StatusBadGateway, "failed to fetch profile")
		return
	}
	defer resp.Body.Close()

	var userInfo struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	err = json.NewDecoder(resp.Body).Decode(&userInfo)
	if err != nil {
		slog.Error("failed to decode google user info", "error", err)
		writeErrorJSON(w, http.StatusBadGateway, "failed to decode profile")
		return
	}
	if userInfo.ID == "" {
		writeErrorJSON(w, http.StatusBadGateway, "profile has no id")
		return
	}

	user, err := h.auth.FindOrCreateFromExternalProfile(userInfo.ID, userInfo.Email, userInfo.Name)
	if err != nil {
		slog.Error("google oauth account resolution failed", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	slog.Info("user logged in with google oauth", "user_id", user.ID)
	h.issueSession(w, r, user, http.StatusOK)
}

// issueSession creates a session for the user, sets the cookie, and
// writes the session envelope.
func (h *AuthHandler) issueSession(w http.ResponseWriter, r *http.Request, user *model.User, status int) {
	session, err := h.sessions.Create(user.ID)
	if err != nil {
		slog.Error("session creation failed", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, status, SessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      toUserResponse(user),
	})
}

func generateOAuthState() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
