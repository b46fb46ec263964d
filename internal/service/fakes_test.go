package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"plant_monitor/internal/models"
)

// memTriggerRepo is an in-memory trigger store that can simulate a worker
// clearing the record after a given number of reads.
type memTriggerRepo struct {
	mu sync.Mutex

	rec *models.TriggerRecord

	sets   int
	reads  int
	clears int

	// clearAfterReads empties the record before read number clearAfterReads+1.
	clearAfterReads int
	// replaceOnRead overwrites the record on the given read number.
	replaceOnRead int
	replacement   models.TriggerRecord

	setErr   error
	getErr   error
	clearErr error
}

func (m *memTriggerRepo) Set(_ context.Context, _ string, rec models.TriggerRecord) (models.TriggerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.setErr != nil {
		return models.TriggerRecord{}, m.setErr
	}
	rec.Timestamp = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	m.rec = &rec
	return rec, nil
}

func (m *memTriggerRepo) Get(_ context.Context, _ string) (*models.TriggerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.replaceOnRead > 0 && m.reads == m.replaceOnRead {
		r := m.replacement
		m.rec = &r
	}
	if m.clearAfterReads > 0 && m.reads > m.clearAfterReads {
		m.rec = nil
	}
	if m.rec == nil {
		return nil, nil
	}
	cp := *m.rec
	return &cp, nil
}

func (m *memTriggerRepo) Take(_ context.Context, _ string) (*models.TriggerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	if m.clearErr != nil {
		return nil, m.clearErr
	}
	prev := m.rec
	m.rec = nil
	return prev, nil
}

func (m *memTriggerRepo) Clear(_ context.Context, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	if m.clearErr != nil {
		return m.clearErr
	}
	m.rec = nil
	return nil
}

// fakeSleeper is a virtual clock: it records requested sleeps and returns immediately.
type fakeSleeper struct {
	calls []time.Duration
	err   error
}

func (f *fakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	f.calls = append(f.calls, d)
	if f.err != nil {
		return f.err
	}
	return ctx.Err()
}

type fakeLauncher struct {
	err   error
	calls [][2]string
	// onLaunch runs inside Launch, e.g. to clear the trigger like a real worker.
	onLaunch func()
}

func (f *fakeLauncher) Launch(_ context.Context, plantID, sensorNode string) error {
	f.calls = append(f.calls, [2]string{plantID, sensorNode})
	if f.onLaunch != nil {
		f.onLaunch()
	}
	return f.err
}

// recordingEventRepo keeps appended events in memory.
type recordingEventRepo struct {
	mu        sync.Mutex
	events    []models.AnalysisEvent
	appendErr error
}

func (r *recordingEventRepo) Append(_ context.Context, e models.AnalysisEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	r.events = append(r.events, e)
	return nil
}

func (r *recordingEventRepo) List(context.Context, time.Time, time.Time, string) ([]models.AnalysisEvent, error) {
	return nil, errors.New("not implemented")
}

func (r *recordingEventRepo) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}
