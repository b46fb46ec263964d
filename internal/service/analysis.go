package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"plant_monitor/internal/logger"
	"plant_monitor/internal/metrics"
	"plant_monitor/internal/models"
	"plant_monitor/internal/repository"
)

const completedMessage = "analysis completed"

// AnalysisService runs one manual analysis: write the trigger, run the worker,
// then wait for the worker to clear the trigger.
type AnalysisService struct {
	writer    *TriggerWriter
	poller    *CompletionPoller
	launcher  WorkerLauncher
	eventRepo repository.EventRepo
	metrics   *metrics.Metrics
	log       *logger.Logger
	now       func() time.Time
}

func NewAnalysisService(writer *TriggerWriter, poller *CompletionPoller, launcher WorkerLauncher, eventRepo repository.EventRepo, m *metrics.Metrics, log *logger.Logger) *AnalysisService {
	return &AnalysisService{
		writer:    writer,
		poller:    poller,
		launcher:  launcher,
		eventRepo: eventRepo,
		metrics:   m,
		log:       logger.OrNop(log),
		now:       time.Now,
	}
}

// Run blocks until the analysis completes or fails. The returned error wraps
// one of ErrInvalidRequest, ErrWriteFailure, ErrWorkerLaunchFailure, ErrTimeout
// or ErrReadFailure.
func (s *AnalysisService) Run(ctx context.Context, req models.AnalysisRequest) (models.AnalysisResult, error) {
	started := s.now()
	requestID := uuid.NewString()

	rec, err := s.writer.Write(ctx, req.PlantID, req.SensorNode, requestID)
	if err != nil {
		if errors.Is(err, ErrInvalidRequest) {
			s.metrics.ObserveRun(metrics.OutcomeInvalid, s.now().Sub(started), 0)
			return models.AnalysisResult{}, err
		}
		s.log.Errorw("trigger_write_failed", "request_id", requestID, "err", err)
		s.metrics.ObserveRun(metrics.OutcomeWriteFailed, s.now().Sub(started), 0)
		s.appendEvent(ctx, requestID, req, EventError, err.Error(), nil)
		return models.AnalysisResult{}, err
	}
	s.log.Infow("trigger_written", "request_id", requestID, "requested_by", req.RequestedBy, "plant_id", rec.PlantID, "sensor_node", rec.SensorNode, "timestamp", rec.Timestamp)
	s.appendEvent(ctx, requestID, req, EventTriggered, "analysis requested", map[string]any{"timestamp": rec.Timestamp})

	if err := s.launcher.Launch(ctx, rec.PlantID, rec.SensorNode); err != nil {
		err = fmt.Errorf("%w: %v", ErrWorkerLaunchFailure, err)
		s.log.Errorw("worker_failed", "request_id", requestID, "plant_id", rec.PlantID, "err", err)
		s.metrics.ObserveRun(metrics.OutcomeWorkerFailed, s.now().Sub(started), 0)
		s.appendEvent(ctx, requestID, req, EventWorkerFailed, err.Error(), nil)
		return models.AnalysisResult{}, err
	}

	attempts, err := s.poller.Await(ctx, requestID)
	took := s.now().Sub(started)
	if err != nil {
		outcome, typ := metrics.OutcomeReadFailed, EventError
		if errors.Is(err, ErrTimeout) {
			outcome, typ = metrics.OutcomeTimeout, EventTimeout
		}
		s.log.Errorw("analysis_failed", "request_id", requestID, "plant_id", rec.PlantID, "attempts", attempts, "err", err)
		s.metrics.ObserveRun(outcome, took, attempts)
		s.appendEvent(ctx, requestID, req, typ, err.Error(), map[string]any{"attempts": attempts})
		return models.AnalysisResult{}, err
	}

	s.log.Infow("analysis_completed", "request_id", requestID, "plant_id", rec.PlantID, "attempts", attempts, "took", took)
	s.metrics.ObserveRun(metrics.OutcomeCompleted, took, attempts)
	s.appendEvent(ctx, requestID, req, EventCompleted, completedMessage, map[string]any{"attempts": attempts})

	return models.AnalysisResult{
		Success:   true,
		Message:   completedMessage,
		Status:    models.AnalysisStatusCompleted,
		RequestID: requestID,
		Attempts:  attempts,
	}, nil
}

// appendEvent records the outcome in the event log. Failures are logged only;
// the analysis result does not depend on the log.
func (s *AnalysisService) appendEvent(ctx context.Context, requestID string, req models.AnalysisRequest, typ, msg string, meta map[string]any) {
	if s.eventRepo == nil {
		return
	}
	// The request context may already be cancelled when a run fails.
	ctx = context.WithoutCancel(ctx)
	ev := models.AnalysisEvent{
		OccurredAt:  s.now().UTC(),
		Type:        typ,
		RequestID:   requestID,
		PlantID:     req.PlantID,
		SensorNode:  req.SensorNode,
		Description: msg,
		RequestedBy: req.RequestedBy,
	}
	if meta != nil {
		ev.Metadata = meta
	}
	if err := s.eventRepo.Append(ctx, ev); err != nil {
		s.log.Warnw("event_append_failed", "request_id", requestID, "type", typ, "err", err)
	}
}
