package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/inkwellhq/inkwell/internal/server/http"
	"github.com/inkwellhq/inkwell/internal/server/identity"
	"github.com/inkwellhq/inkwell/internal/server/service"
	"github.com/inkwellhq/inkwell/internal/server/store"
	"github.com/inkwellhq/inkwell/internal/server/store/drivers/sqlite"
	"github.com/inkwellhq/inkwell/pkg/jwtx"
	"github.com/inkwellhq/inkwell/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application wires the blog service together with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	tokens *jwtx.HS256

	authService  *service.AuthService
	blogService  *service.BlogService
	mediaService *service.MediaService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if cfg.SessionSecret == "" {
		return nil, errors.New("SESSION_SECRET is required")
	}

	tokens, err := jwtx.NewHS256([]byte(cfg.SessionSecret), cfg.SessionIssuer, cfg.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session signer: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "inkwell",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		tokens: tokens,
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(context.Background()); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("blog service starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down blog service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("blog service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
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

// initServices initializes all business logic services
func (app *Application) initServices(ctx context.Context) error {
	app.authService = &service.AuthService{
		Store:    app.db,
		Identity: identity.NewGoogleVerifier(app.cfg.GoogleClientID),
		Signer:   app.tokens,
	}

	app.blogService = &service.BlogService{Store: app.db}

	presigner, err := service.NewS3Presigner(ctx, service.S3Config{
		Region:    app.cfg.S3Region,
		Bucket:    app.cfg.S3Bucket,
		AccessKey: app.cfg.S3AccessKey,
		SecretKey: app.cfg.S3SecretKey,
		Endpoint:  app.cfg.S3Endpoint,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}
	app.mediaService = &service.MediaService{
		Presigner: presigner,
		Bucket:    app.cfg.S3Bucket,
		URLTTL:    app.cfg.UploadTTL,
	}

	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.tokens, BuildVersion, app.db, app.logger)

	router.AuthService = app.authService
	router.BlogService = app.blogService
	router.MediaService = app.mediaService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
