package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ngmaloney/surf-terminal/internal/api"
	"github.com/ngmaloney/surf-terminal/internal/config"
	"github.com/ngmaloney/surf-terminal/internal/database"
	"github.com/ngmaloney/surf-terminal/internal/identity"
	"github.com/ngmaloney/surf-terminal/internal/logging"
	"github.com/ngmaloney/surf-terminal/internal/metrics"
)

// app holds the wired dependencies shared by every command
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	db       *sql.DB
	identity *identity.Provider
	client   *api.Client
	registry *prometheus.Registry

	closers []func() error
}

func newApp(ctx context.Context, flags *globalFlags) (*app, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.metricsAddr != "" {
		cfg.Metrics.Addr = flags.metricsAddr
	}

	logger, closeLog, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, closers: []func() error{closeLog}}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.db = db
	a.closers = append(a.closers, db.Close)

	auth := identity.NewAuthClient(cfg.Auth.URL, cfg.Auth.Key)
	a.identity = identity.NewProvider(auth, identity.NewSessionRepository(db), cfg.Identity.ProfileTTL, logger)
	if cfg.AuthEnabled() {
		if err := a.identity.Restore(ctx); err != nil {
			logger.Warn("restoring session failed", "error", err)
		}
	} else {
		logger.Info("auth.url not set, sign in disabled")
	}

	a.registry = prometheus.NewRegistry()
	gm, err := metrics.NewGatewayMetrics(a.registry)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.client = api.NewClient(cfg.APIBaseURL(),
		api.WithTimeout(cfg.API.Timeout),
		api.WithTokenSource(a.identity),
		api.WithMetrics(gm),
		api.WithLogger(logger),
	)
	logger.Info("surf-terminal starting", "api", a.client.BaseURL(), "auth", cfg.AuthEnabled())
	return a, nil
}

// serveMetrics exposes the registry on cfg.Metrics.Addr until the returned stop is called.
// With no address configured it does nothing.
func (a *app) serveMetrics() (stop func()) {
	if a.cfg.Metrics.Addr == "" {
		return func() {}
	}

	srv := &http.Server{
		Addr:              a.cfg.Metrics.Addr,
		Handler:           metrics.Handler(a.registry),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server stopped", "addr", srv.Addr, "error", err)
		}
	}()
	a.logger.Info("serving metrics", "addr", srv.Addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// Close releases resources in reverse order of acquisition
func (a *app) Close() {
	if a.identity != nil {
		a.identity.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
}
