package service

import "time"

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "TRIGGERED", "WORKER_FAILED", "COMPLETED", "TIMEOUT", "ERROR", "CLEARED"
}

// NewPlant is the input for registering a plant.
type NewPlant struct {
	Name       string
	Species    string
	SensorNode string
}

// Analysis event types written to the event log.
const (
	EventTriggered    = "TRIGGERED"
	EventWorkerFailed = "WORKER_FAILED"
	EventCompleted    = "COMPLETED"
	EventTimeout      = "TIMEOUT"
	EventError        = "ERROR"
	EventCleared      = "CLEARED"
)
