package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"plant_monitor/internal/models"
)

// BreakerSettings configures the circuit breaker in front of the trigger store.
type BreakerSettings struct {
	Name     string
	Failures int           // consecutive failures that open the breaker
	OpenFor  time.Duration // how long it stays open before a trial call
}

// BreakerTriggerRepo guards a TriggerRepo with a circuit breaker.
// While open, calls fail immediately with gobreaker.ErrOpenState.
type BreakerTriggerRepo struct {
	inner TriggerRepo
	cb    *gobreaker.CircuitBreaker
}

var _ TriggerRepo = (*BreakerTriggerRepo)(nil)

func NewBreakerTriggerRepo(inner TriggerRepo, s BreakerSettings) *BreakerTriggerRepo {
	if s.Failures < 1 {
		s.Failures = 1
	}
	if s.OpenFor <= 0 {
		s.OpenFor = 10 * time.Second
	}
	if s.Name == "" {
		s.Name = "trigger-store"
	}
	failures := uint32(s.Failures)
	return &BreakerTriggerRepo{
		inner: inner,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    s.Name,
			Timeout: s.OpenFor,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= failures
			},
			IsSuccessful: isStoreHealthy,
		}),
	}
}

// isStoreHealthy reports whether err says nothing bad about the store.
// A caller that gave up (disconnect, deadline) must not trip the breaker.
func isStoreHealthy(err error) bool {
	return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// State exposes the breaker state for health reporting.
func (r *BreakerTriggerRepo) State() string {
	return r.cb.State().String()
}

func (r *BreakerTriggerRepo) Set(ctx context.Context, path string, rec models.TriggerRecord) (models.TriggerRecord, error) {
	res, err := r.cb.Execute(func() (interface{}, error) {
		return r.inner.Set(ctx, path, rec)
	})
	if err != nil {
		return models.TriggerRecord{}, err
	}
	return res.(models.TriggerRecord), nil
}

func (r *BreakerTriggerRepo) Get(ctx context.Context, path string) (*models.TriggerRecord, error) {
	res, err := r.cb.Execute(func() (interface{}, error) {
		return r.inner.Get(ctx, path)
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.TriggerRecord), nil
}

func (r *BreakerTriggerRepo) Take(ctx context.Context, path string) (*models.TriggerRecord, error) {
	res, err := r.cb.Execute(func() (interface{}, error) {
		return r.inner.Take(ctx, path)
	})
	if err != nil {
		return nil, err
	}
	return res.(*models.TriggerRecord), nil
}

func (r *BreakerTriggerRepo) Clear(ctx context.Context, path string) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.inner.Clear(ctx, path)
	})
	return err
}
