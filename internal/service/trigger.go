package service

import (
	"context"
	"fmt"
	"strings"

	"plant_monitor/internal/models"
	"plant_monitor/internal/repository"
)

// TriggerWriter overwrites the shared trigger record.
type TriggerWriter struct {
	repo repository.TriggerRepo
	path string
}

func NewTriggerWriter(repo repository.TriggerRepo, path string) *TriggerWriter {
	return &TriggerWriter{repo: repo, path: path}
}

// Write validates the identifiers and replaces whatever record is at the trigger
// path. Nothing is written when validation fails.
func (w *TriggerWriter) Write(ctx context.Context, plantID, sensorNode, requestID string) (models.TriggerRecord, error) {
	plantID = strings.TrimSpace(plantID)
	sensorNode = strings.TrimSpace(sensorNode)
	if plantID == "" {
		return models.TriggerRecord{}, fmt.Errorf("%w: plantId is required", ErrInvalidRequest)
	}
	if sensorNode == "" {
		return models.TriggerRecord{}, fmt.Errorf("%w: sensorNode is required", ErrInvalidRequest)
	}

	rec, err := w.repo.Set(ctx, w.path, models.TriggerRecord{
		PlantID:     plantID,
		SensorNode:  sensorNode,
		RequestType: models.RequestTypeManual,
		Status:      models.TriggerStatusPending,
		RequestID:   requestID,
	})
	if err != nil {
		return models.TriggerRecord{}, fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	return rec, nil
}
