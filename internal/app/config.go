package app

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type OAuthProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Configured reports whether this provider has enough settings to be
// registered.
func (c OAuthProviderConfig) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type SMTPSettings struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Configured reports whether real SMTP delivery can be used. When false
// the app falls back to logging outbound mail.
func (c SMTPSettings) Configured() bool {
	return c.Host != "" && c.Port != "" && c.From != ""
}

type Config struct {
	Issuer      string // Issuer claim for tokens (default: clipboard-auth)
	FrontendURL string // Base URL of the web frontend, used in redirects and emails

	AccessSecret  string        // Required: HMAC secret for access tokens
	RefreshSecret string        // Required: HMAC secret for refresh tokens
	AccessTTL     time.Duration // Access token lifetime (default: 15m)
	RefreshTTL    time.Duration // Refresh token lifetime (default: 168h)

	DatabaseFile string // Path to SQLite database file (default: ./clipboard.db)
	PepperFile   string // Path to file containing pepper for password hashing (default: ./pepper)

	Google OAuthProviderConfig
	GitHub OAuthProviderConfig
	SMTP   SMTPSettings

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

// ErrMissingSecrets is returned when the JWT secrets are not configured.
var ErrMissingSecrets = errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must be set")

func LoadConfig() (Config, error) {
	cfg := Config{
		Issuer:      getEnvOrDefault("AUTH_ISSUER", "clipboard-auth"),
		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),

		AccessSecret:  os.Getenv("JWT_ACCESS_SECRET"),
		RefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		AccessTTL:     getEnvDurationOrDefault("JWT_ACCESS_EXPIRATION", 15*time.Minute),
		RefreshTTL:    getEnvDurationOrDefault("JWT_REFRESH_EXPIRATION", 7*24*time.Hour),

		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "clipboard.db"),
		PepperFile:   getEnvOrDefault("PEPPER_FILE", "pepper"),

		Google: OAuthProviderConfig{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		},
		GitHub: OAuthProviderConfig{
			ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
			ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("GITHUB_REDIRECT_URL"),
		},
		SMTP: SMTPSettings{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     os.Getenv("SMTP_PORT"),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return Config{}, ErrMissingSecrets
	}

	// Redirect URLs default to routes on this service.
	base := getEnvOrDefault("BASE_URL", "http://localhost:"+strconv.Itoa(cfg.Port))
	if cfg.Google.RedirectURL == "" {
		cfg.Google.RedirectURL = base + "/api/auth/google/callback"
	}
	if cfg.GitHub.RedirectURL == "" {
		cfg.GitHub.RedirectURL = base + "/api/auth/github/callback"
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Accept duration strings ("15m", "1h") or plain integer minutes.
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
