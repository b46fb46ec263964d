package service

import (
	"context"
	"time"

	"plant_monitor/internal/logger"
	"plant_monitor/internal/models"
	"plant_monitor/internal/repository"
)

// MonitoringService exposes the trigger record to operators and workers.
type MonitoringService struct {
	triggerRepo repository.TriggerRepo
	eventRepo   repository.EventRepo
	path        string
	log         *logger.Logger
}

func NewMonitoringService(triggerRepo repository.TriggerRepo, eventRepo repository.EventRepo, path string, log *logger.Logger) *MonitoringService {
	return &MonitoringService{
		triggerRepo: triggerRepo,
		eventRepo:   eventRepo,
		path:        path,
		log:         logger.OrNop(log),
	}
}

// GetTrigger returns the pending trigger, or nil when none is pending.
func (s *MonitoringService) GetTrigger(ctx context.Context) (*models.TriggerRecord, error) {
	return s.triggerRepo.Get(ctx, s.path)
}

// ClearTrigger removes the trigger record, which signals completion to any
// request waiting on it. The cleared record is returned (nil if none was pending).
// clearedBy is the user id behind the call, zero for the CLI.
func (s *MonitoringService) ClearTrigger(ctx context.Context, clearedBy int) (*models.TriggerRecord, error) {
	prev, err := s.triggerRepo.Take(ctx, s.path)
	if err != nil {
		return nil, err
	}

	ev := models.AnalysisEvent{
		OccurredAt:  time.Now().UTC(),
		Type:        EventCleared,
		Description: "trigger cleared",
		RequestedBy: clearedBy,
	}
	if prev != nil {
		ev.RequestID = prev.RequestID
		ev.PlantID = prev.PlantID
		ev.SensorNode = prev.SensorNode
	}
	if err := s.eventRepo.Append(ctx, ev); err != nil {
		s.log.Warnw("event_append_failed", "type", EventCleared, "err", err)
	}
	s.log.Infow("trigger_cleared", "pending", prev != nil, "cleared_by", clearedBy)
	return prev, nil
}
