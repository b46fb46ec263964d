// Package app assembles the storage, repositories and services shared by the
// HTTP server and the plantctl CLI.
package app

import (
	"database/sql"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"plant_monitor/internal/config"
	"plant_monitor/internal/logger"
	"plant_monitor/internal/metrics"
	"plant_monitor/internal/repository"
	"plant_monitor/internal/repository/db"
	"plant_monitor/internal/service"
)

type App struct {
	DB       *sql.DB
	Repos    *repository.Repository
	Services *service.Service
	Metrics  *metrics.Metrics
}

// Option adjusts the service dependencies before they are wired.
type Option func(*service.Deps)

// WithLauncher replaces the os/exec worker launcher.
func WithLauncher(l service.WorkerLauncher) Option {
	return func(d *service.Deps) { d.Launcher = l }
}

// WithSleeper replaces the poller's wall-clock sleeper.
func WithSleeper(s service.Sleeper) Option {
	return func(d *service.Deps) { d.Sleeper = s }
}

// New opens the database and wires every layer on top of it. reg may be nil,
// in which case metrics are not collected.
func New(cfg config.Config, log *logger.Logger, reg prometheus.Registerer, opts ...Option) (*App, error) {
	conn, err := db.InitDB(cfg.DB.Path, cfg.DB.ConnectRetries)
	if err != nil {
		return nil, fmt.Errorf("init sqlite at %q: %w", cfg.DB.Path, err)
	}

	var m *metrics.Metrics
	if reg != nil {
		m = metrics.New(reg)
	}

	repos := repository.NewRepository(conn, repository.BreakerSettings{
		Name:     "trigger-store",
		Failures: cfg.Store.BreakerFailures,
		OpenFor:  cfg.Store.BreakerOpenFor,
	})
	deps := service.Deps{
		Config:  cfg,
		Metrics: m,
		Log:     log,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	services := service.NewService(repos, deps)

	return &App{DB: conn, Repos: repos, Services: services, Metrics: m}, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}
