package models

import "time"

// AnalysisEvent is a single entry of the analysis log.
type AnalysisEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"` // TRIGGERED | WORKER_FAILED | COMPLETED | TIMEOUT | ERROR | CLEARED
	RequestID   string    `json:"request_id,omitempty"`
	PlantID     string    `json:"plant_id,omitempty"`
	SensorNode  string    `json:"sensor_node,omitempty"`
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
	RequestedBy int       `json:"requested_by,omitempty"` // user id, 0 when not from the API
}
