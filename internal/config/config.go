package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppURL  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Sessions
	SessionLifetime time.Duration

	// Uploads
	UploadMaxBytes    int64
	AllowedVideoTypes []string // bare extensions: mp4, avi, ...

	// OAuth
	GoogleClientID     string
	GoogleClientSecret string

	// Observability (optional)
	SentryDSN string

	// Storage ("local" or "s3")
	StorageDriver    string
	LocalStoragePath string
	S3Region         string
	S3Bucket         string
	S3AccessKey      string
	S3SecretKey      string
	S3Endpoint       string // Optional: for S3-compatible services (MinIO, R2, etc.)
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		AppName: envString("APP_NAME", "vidvault"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:  envString("APP_URL", "http://localhost:8090"),
		Port:    envString("PORT", "8090"),

		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/vidvault.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		SessionLifetime: envDuration("SESSION_LIFETIME", 24*time.Hour),

		UploadMaxBytes:    envInt64("UPLOAD_MAX_BYTES", 500<<20), // 500 MiB
		AllowedVideoTypes: envList("ALLOWED_VIDEO_TYPES", "mp4,avi,mov,wmv,flv,mkv"),

		GoogleClientID:     envString("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: envString("GOOGLE_CLIENT_SECRET", ""),

		SentryDSN: envString("SENTRY_DSN", ""),

		StorageDriver:    envString("STORAGE_DRIVER", "local"),
		LocalStoragePath: envString("LOCAL_STORAGE_PATH", "./data/uploads"),
		S3Region:         envString("S3_REGION", ""),
		S3Bucket:         envString("S3_BUCKET", ""),
		S3AccessKey:      envString("S3_ACCESS_KEY", ""),
		S3SecretKey:      envString("S3_SECRET_KEY", ""),
		S3Endpoint:       envString("S3_ENDPOINT", ""),
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures required services are configured for
// production deployments. Development allows local fallbacks.
func validateProduction(cfg *Config) {
	if cfg.StorageDriver == "s3" && (cfg.S3Region == "" || cfg.S3Bucket == "") {
		slog.Error("production S3 storage requires S3_REGION and S3_BUCKET",
			"hint", "set STORAGE_DRIVER=local for disk storage")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt64(key string, def int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		slog.Warn("config invalid integer, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envList(key, def string) []string {
	v := envString(key, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Sanitized returns a copy of the config with only public/safe fields.
// Secrets and credentials are excluded; safe to expose in request contexts.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName: c.AppName,
		AppEnv:  c.AppEnv,
		AppURL:  c.AppURL,
		Port:    c.Port,

		GoogleClientID: c.GoogleClientID,

		StorageDriver: c.StorageDriver,
		S3Endpoint:    c.S3Endpoint,
	}
}
