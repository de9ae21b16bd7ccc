package routes

import (
	"net/http"

	"github.com/vidvault/vidvault/internal/app"
	"github.com/vidvault/vidvault/internal/handler"
	"github.com/vidvault/vidvault/internal/middleware"
	"github.com/vidvault/vidvault/internal/model"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService, app.SessionService, app.Cfg)
	account := handler.NewAccountHandler(app.AuthService)
	video := handler.NewVideoHandler(app.VideoService, app.Cfg.UploadMaxBytes)
	company := handler.NewCompanyHandler(app.CompanyService, app.Users)

	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Auth - credential endpoints are rate limited per IP
	rateLimiter := middleware.RateLimitAuth()

	mux.HandleFunc("POST /auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /auth/logout", auth.Logout)
	mux.HandleFunc("POST /auth/extend", middleware.RequireAuth(auth.Extend))

	// OAuth
	mux.HandleFunc("GET /auth/google", rateLimiter(auth.GoogleLogin))
	mux.HandleFunc("GET /auth/google/callback", rateLimiter(auth.GoogleCallback))

	// Account
	mux.HandleFunc("GET /me", middleware.RequireAuth(account.Me))
	mux.HandleFunc("PATCH /me", middleware.RequireAuth(account.UpdateMe))
	mux.HandleFunc("POST /me/password", middleware.RequireAuth(account.ChangePassword))

	// Videos
	mux.HandleFunc("POST /videos", middleware.RequireAuth(video.Upload))
	mux.HandleFunc("GET /videos", middleware.RequireAuth(video.List))
	mux.HandleFunc("GET /videos/{id}", middleware.RequireAuth(video.Get))
	mux.HandleFunc("GET /videos/{id}/download", middleware.RequireAuth(video.Download))
	mux.HandleFunc("PATCH /videos/{id}", middleware.RequireAuth(video.Update))
	mux.HandleFunc("DELETE /videos/{id}", middleware.RequireAuth(video.Delete))

	// Companies (member-visible)
	mux.HandleFunc("GET /companies/{id}", middleware.RequireAuth(company.Show))

	// Admin
	requireAdmin := middleware.RequireRole(model.RoleAdmin)
	mux.HandleFunc("GET /admin/companies", requireAdmin(company.List))
	mux.HandleFunc("GET /admin/companies/{id}", requireAdmin(company.Get))
	mux.HandleFunc("DELETE /admin/companies/{id}", requireAdmin(company.Delete))
	mux.HandleFunc("GET /admin/users", requireAdmin(company.Users))

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.Config(app.Cfg),
		middleware.RequestLogging,
		middleware.SessionAuth(app.SessionService),
	)
}
