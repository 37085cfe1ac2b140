// Package internal contains core application functionality
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/karloscodes/cartridge"

	"ctrcompare/internal/config"
	"ctrcompare/internal/database"
	"ctrcompare/internal/http"
	"ctrcompare/internal/metrics"
	"ctrcompare/internal/session"
	"ctrcompare/internal/store"
)

// Application wraps cartridge.Application with the comparison session and
// the store it is mirrored to.
type Application struct {
	*cartridge.Application
	Config    *config.Config
	DBManager *database.DBManager // ctrcompare DB manager with migration methods
	Store     store.Store
	Session   *session.ComparisonSession
	Metrics   *metrics.Metrics
}

// NewApp creates a new application instance with default settings
func NewApp() (*Application, error) {
	return NewAppWithConfig(config.GetConfig())
}

// NewAppWithConfig creates a new application with the provided config
func NewAppWithConfig(cfg *config.Config) (*Application, error) {
	return NewAppWithLogger(cfg, cartridge.NewLogger(cfg, nil))
}

// NewAppWithLogger wires every component. It neither migrates the database
// nor restores the session: callers run DBManager.MigrateDatabase and then
// RestoreSession.
func NewAppWithLogger(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	dbManager := database.NewDBManager(cfg, logger)
	if err := dbManager.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var sessionStore store.Store
	if cfg.PersistSession {
		sessionStore = store.NewSettingsStore(dbManager.GetConnection(), logger)
	} else {
		sessionStore = store.NewMemoryStore()
	}

	m := metrics.NewMetrics()
	cs := session.New(sessionStore, logger)
	handlers := http.NewHandlers(cs, m)

	app, err := cartridge.NewApplication(cartridge.ApplicationOptions{
		Config:       cfg,
		Logger:       logger,
		DBManager:    dbManager,
		ServerConfig: NewServerConfig(),
		RouteMountFunc: func(srv *cartridge.Server) {
			MountRoutes(srv, handlers, cfg.MaxUploadBytes())
		},
	})
	if err != nil {
		_ = dbManager.Close()
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	return &Application{
		Application: app,
		Config:      cfg,
		DBManager:   dbManager,
		Store:       sessionStore,
		Session:     cs,
		Metrics:     m,
	}, nil
}

// RestoreSession loads the last saved comparison into the session. Run it
// after MigrateDatabase.
func (a *Application) RestoreSession() bool {
	ok := a.Session.Restore()
	a.Metrics.ObserveRestore(ok)
	return ok
}

// Shutdown stops the server then closes the database.
func (a *Application) Shutdown(ctx context.Context) error {
	var errs []error
	if err := a.Application.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}
	if err := a.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Close releases the database without touching the server; used by the CLI.
func (a *Application) Close() error {
	if err := a.DBManager.Close(); err != nil {
		return fmt.Errorf("database close: %w", err)
	}
	return nil
}
