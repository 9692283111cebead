package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/clipboardhq/clipboard/internal/http"
	"github.com/clipboardhq/clipboard/internal/mail"
	"github.com/clipboardhq/clipboard/internal/oauth"
	"github.com/clipboardhq/clipboard/internal/service"
	"github.com/clipboardhq/clipboard/internal/store"
	"github.com/clipboardhq/clipboard/internal/store/sqlite"
	"github.com/clipboardhq/clipboard/pkg/cryptox"
	"github.com/clipboardhq/clipboard/pkg/jwtx"
	"github.com/clipboardhq/clipboard/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the account service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db        store.Store
	providers *oauth.Registry
	sender    mail.Sender

	authService         *service.AuthService
	tokenService        *service.TokenService
	oauthService        *service.OAuthService
	resetService        *service.ResetService
	userService         *service.UserService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "clipboard-account",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initProviders()
	app.initMail()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("account service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down account service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("account service stopped")
	return nil
}

// initDatabase opens the database and applies migrations.
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initProviders registers the OAuth providers that have credentials.
func (app *Application) initProviders() {
	var providers []oauth.Provider
	if app.cfg.Google.Configured() {
		providers = append(providers, oauth.NewGoogle(
			app.cfg.Google.ClientID,
			app.cfg.Google.ClientSecret,
			app.cfg.Google.RedirectURL,
		))
	}
	if app.cfg.GitHub.Configured() {
		providers = append(providers, oauth.NewGitHub(
			app.cfg.GitHub.ClientID,
			app.cfg.GitHub.ClientSecret,
			app.cfg.GitHub.RedirectURL,
		))
	}

	app.providers = oauth.NewRegistry(providers...)
	app.logger.Info("oauth providers registered", "providers", app.providers.Names())
}

// initMail selects SMTP delivery when configured, otherwise the log
// sender.
func (app *Application) initMail() {
	if app.cfg.SMTP.Configured() {
		sender, err := mail.NewSMTPSender(mail.SMTPConfig{
			Host:     app.cfg.SMTP.Host,
			Port:     app.cfg.SMTP.Port,
			Username: app.cfg.SMTP.Username,
			Password: app.cfg.SMTP.Password,
			From:     app.cfg.SMTP.From,
		})
		if err == nil {
			app.sender = sender
			app.logger.Info("smtp mail delivery enabled", "host", app.cfg.SMTP.Host)
			return
		}
		app.logger.Error("smtp configuration rejected, falling back to log sender", "error", err)
	}
	app.sender = mail.NewLogSender(app.logger)
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.tokenService = &service.TokenService{
		AccessSigner:  jwtx.NewHS256Signer([]byte(app.cfg.AccessSecret)),
		RefreshSigner: jwtx.NewHS256Signer([]byte(app.cfg.RefreshSecret)),
		Issuer:        app.cfg.Issuer,
		AccessTTL:     app.cfg.AccessTTL,
		RefreshTTL:    app.cfg.RefreshTTL,
	}

	app.authService = &service.AuthService{
		Store:           app.db,
		Tokens:          app.tokenService,
		RefreshVerifier: jwtx.NewHS256Verifier([]byte(app.cfg.RefreshSecret), app.cfg.Issuer),
	}

	app.oauthService = &service.OAuthService{Store: app.db}
	app.resetService = &service.ResetService{
		Store:       app.db,
		Mail:        app.sender,
		FrontendURL: app.cfg.FrontendURL,
	}
	app.userService = &service.UserService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		jwtx.NewHS256Verifier([]byte(app.cfg.AccessSecret), app.cfg.Issuer),
		BuildVersion,
		app.cfg.FrontendURL,
		httpapi.CookieConfig{Secure: app.cfg.Env == "prod"},
		app.db,
		app.logger,
	)

	router.AuthService = app.authService
	router.OAuthService = app.oauthService
	router.ResetService = app.resetService
	router.UserService = app.userService
	router.Providers = app.providers
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
