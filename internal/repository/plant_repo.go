package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"plant_monitor/internal/models"
)

type PlantSQLite struct {
	db *sql.DB
}

func NewPlantSQLite(db *sql.DB) *PlantSQLite { return &PlantSQLite{db: db} }

const (
	insertPlantSQL = `
		INSERT INTO plants (id, name, species, sensor_node, status, last_updated, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	selectPlantsSQL = `
		SELECT id, name, species, sensor_node, status, last_updated, created_at
		FROM plants
	`
	updatePlantStatusSQL = `UPDATE plants SET status=?, last_updated=? WHERE id=?`
)

// Create inserts a new plant. Timestamps must already be set by the caller.
func (r *PlantSQLite) Create(ctx context.Context, p models.Plant) error {
	_, err := r.db.ExecContext(ctx, insertPlantSQL,
		p.ID,
		p.Name,
		p.Species,
		p.SensorNode,
		p.Status,
		p.LastUpdated.UTC(),
		p.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert plant %q: %w", p.Name, err)
	}
	return nil
}

// List returns all plants ordered by creation time.
func (r *PlantSQLite) List(ctx context.Context) ([]models.Plant, error) {
	rows, err := r.db.QueryContext(ctx, selectPlantsSQL+" ORDER BY created_at ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Plant, 0, 16)
	for rows.Next() {
		p, err := scanPlant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one plant. Returns (nil, nil) if not found.
func (r *PlantSQLite) Get(ctx context.Context, id string) (*models.Plant, error) {
	row := r.db.QueryRowContext(ctx, selectPlantsSQL+" WHERE id=?", id)
	p, err := scanPlant(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select plant %q: %w", id, err)
	}
	return &p, nil
}

// UpdateStatus stores the worker's verdict. The bool reports whether the plant exists.
func (r *PlantSQLite) UpdateStatus(ctx context.Context, id, status string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, updatePlantStatusSQL, status, at.UTC(), id)
	if err != nil {
		return false, fmt.Errorf("update plant %q status: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlant(s rowScanner) (models.Plant, error) {
	var (
		p       models.Plant
		species sql.NullString
	)
	if err := s.Scan(&p.ID, &p.Name, &species, &p.SensorNode, &p.Status, &p.LastUpdated, &p.CreatedAt); err != nil {
		return models.Plant{}, err
	}
	p.Species = species.String
	p.LastUpdated = p.LastUpdated.UTC()
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}
