package service

import (
	"context"
	"fmt"
	"time"

	"plant_monitor/internal/logger"
	"plant_monitor/internal/metrics"
	"plant_monitor/internal/repository"
)

// Sleeper blocks for d or until ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// RealSleeper sleeps on the wall clock.
type RealSleeper struct{}

func (RealSleeper) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// PollConfig bounds the wait for the worker.
type PollConfig struct {
	Interval    time.Duration
	MaxAttempts int
}

// CompletionPoller waits for the trigger record to disappear.
type CompletionPoller struct {
	repo    repository.TriggerRepo
	path    string
	cfg     PollConfig
	sleeper Sleeper
	metrics *metrics.Metrics
	log     *logger.Logger
}

func NewCompletionPoller(repo repository.TriggerRepo, path string, cfg PollConfig, sleeper Sleeper, m *metrics.Metrics, log *logger.Logger) *CompletionPoller {
	if sleeper == nil {
		sleeper = RealSleeper{}
	}
	return &CompletionPoller{
		repo:    repo,
		path:    path,
		cfg:     cfg,
		sleeper: sleeper,
		metrics: m,
		log:     logger.OrNop(log),
	}
}

// Await sleeps one interval, then reads the trigger record, up to MaxAttempts
// times. An absent record means the worker finished. The returned count is
// the number of reads made.
func (p *CompletionPoller) Await(ctx context.Context, requestID string) (int, error) {
	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		if err := p.sleeper.Sleep(ctx, p.cfg.Interval); err != nil {
			return attempt - 1, fmt.Errorf("%w: wait before attempt %d: %v", ErrReadFailure, attempt, err)
		}

		rec, err := p.repo.Get(ctx, p.path)
		p.metrics.IncPollRead()
		if err != nil {
			return attempt, fmt.Errorf("%w: attempt %d: %v", ErrReadFailure, attempt, err)
		}
		if rec == nil {
			return attempt, nil
		}

		if requestID != "" && rec.RequestID != "" && rec.RequestID != requestID {
			p.log.Warnw("trigger_overwritten",
				"request_id", requestID,
				"current_request_id", rec.RequestID,
				"plant_id", rec.PlantID,
				"attempt", attempt,
			)
		}
		p.log.Debugw("trigger_pending", "request_id", requestID, "attempt", attempt)
	}
	return p.cfg.MaxAttempts, fmt.Errorf("%w: record still present after %d attempts", ErrTimeout, p.cfg.MaxAttempts)
}
