package service

import (
	"context"

	"plant_monitor/internal/config"
	"plant_monitor/internal/logger"
	"plant_monitor/internal/metrics"
	"plant_monitor/internal/models"
	"plant_monitor/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Analysis runs the trigger, worker and completion wait for one request.
type Analysis interface {
	Run(ctx context.Context, req models.AnalysisRequest) (models.AnalysisResult, error)
}

// Monitoring exposes the shared trigger record.
type Monitoring interface {
	GetTrigger(ctx context.Context) (*models.TriggerRecord, error)
	ClearTrigger(ctx context.Context, clearedBy int) (*models.TriggerRecord, error)
}

// Plants is the plant registry.
type Plants interface {
	AddPlant(ctx context.Context, in NewPlant) (models.Plant, error)
	ListPlants(ctx context.Context) ([]models.Plant, error)
	GetPlant(ctx context.Context, id string) (models.Plant, error)
	UpdatePlantStatus(ctx context.Context, id, status string) error
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.AnalysisEvent, error)
}

// Service aggregates all sub-services.
type Service struct {
	Analysis
	Monitoring
	Plants
	EventLog
	Authorization
}

// Deps are the non-repository collaborators. Launcher, Sleeper, Metrics and
// Log may be nil.
type Deps struct {
	Config   config.Config
	Launcher WorkerLauncher
	Sleeper  Sleeper
	Metrics  *metrics.Metrics
	Log      *logger.Logger
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, d Deps) *Service {
	cfg := d.Config
	launcher := d.Launcher
	if launcher == nil {
		launcher = NewExecLauncher(cfg.Worker.Command, cfg.Worker.Args, cfg.Worker.Dir, cfg.Worker.Timeout, d.Log)
	}

	path := cfg.Analysis.TriggerPath
	writer := NewTriggerWriter(repos.TriggerRepo, path)
	poller := NewCompletionPoller(repos.TriggerRepo, path, PollConfig{
		Interval:    cfg.Analysis.PollInterval,
		MaxAttempts: cfg.Analysis.MaxAttempts,
	}, d.Sleeper, d.Metrics, d.Log)

	return &Service{
		Analysis:      NewAnalysisService(writer, poller, launcher, repos.EventRepo, d.Metrics, d.Log),
		Monitoring:    NewMonitoringService(repos.TriggerRepo, repos.EventRepo, path, d.Log),
		Plants:        NewPlantService(repos.PlantRepo, cfg.Plants.SensorNodes),
		EventLog:      NewEventLogService(repos.EventRepo),
		Authorization: NewAuthService(repos.Auth, cfg.Auth.SigningKey, cfg.Auth.TokenTTL),
	}
}
