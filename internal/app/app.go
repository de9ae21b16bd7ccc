package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vidvault/vidvault/internal/config"
	"github.com/vidvault/vidvault/internal/db"
	"github.com/vidvault/vidvault/internal/repository"
	"github.com/vidvault/vidvault/internal/service"
	"github.com/vidvault/vidvault/internal/storage"
	"github.com/vidvault/vidvault/internal/validation"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	Users          repository.UserRepository
	AuthService    *service.AuthService
	SessionService *service.SessionService
	CompanyService *service.CompanyService
	VideoService   *service.VideoService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	sessionRepository := repository.NewSessionRepository(database)
	companyRepository := repository.NewCompanyRepository(database)
	videoRepository := repository.NewVideoRepository(database)

	// Storage
	blobStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	companyService := service.NewCompanyService(companyRepository)
	authService := service.NewAuthService(userRepository, companyService)
	sessionService := service.NewSessionService(sessionRepository, userRepository, cfg.SessionLifetime)
	videoService := service.NewVideoService(
		videoRepository,
		blobStorage,
		validation.NewVideoConstraints(cfg.AllowedVideoTypes, cfg.UploadMaxBytes),
	)

	return &App{
		Cfg:            cfg,
		DB:             database,
		Users:          userRepository,
		AuthService:    authService,
		SessionService: sessionService,
		CompanyService: companyService,
		VideoService:   videoService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
