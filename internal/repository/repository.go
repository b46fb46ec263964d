package repository

import (
	"context"
	"database/sql"
	"time"

	"plant_monitor/internal/models"
)

type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// TriggerRepo is the realtime store holding the trigger record.
// Get and Take return (nil, nil) when the record is absent or empty.
type TriggerRepo interface {
	Set(ctx context.Context, path string, rec models.TriggerRecord) (models.TriggerRecord, error)
	Get(ctx context.Context, path string) (*models.TriggerRecord, error)
	Clear(ctx context.Context, path string) error
	// Take removes the record and returns what it held, atomically.
	Take(ctx context.Context, path string) (*models.TriggerRecord, error)
}

type PlantRepo interface {
	Create(ctx context.Context, p models.Plant) error
	List(ctx context.Context) ([]models.Plant, error)
	Get(ctx context.Context, id string) (*models.Plant, error)
	UpdateStatus(ctx context.Context, id, status string, at time.Time) (bool, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.AnalysisEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.AnalysisEvent, error)
}

type Repository struct {
	TriggerRepo TriggerRepo
	PlantRepo   PlantRepo
	EventRepo   EventRepo
	Auth        Authorization
}

// NewRepository builds all SQLite repositories on db. The trigger store is
// guarded by a circuit breaker so an unreachable store fails fast.
func NewRepository(db *sql.DB, breaker BreakerSettings) *Repository {
	return &Repository{
		TriggerRepo: NewBreakerTriggerRepo(NewTriggerSQLite(db), breaker),
		PlantRepo:   NewPlantSQLite(db),
		EventRepo:   NewEventSQLite(db),
		Auth:        NewUserRepository(db),
	}
}
