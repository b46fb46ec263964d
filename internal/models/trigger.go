package models

const (
	// RequestTypeManual marks records written by the on-demand analysis endpoint.
	RequestTypeManual = "manual"
	// TriggerStatusPending is the lifecycle tag of a freshly written record.
	TriggerStatusPending = "pending"
	// AnalysisStatusCompleted is reported to callers once the worker cleared the record.
	AnalysisStatusCompleted = "completed"
	// AnalysisStatusError is reported when a run ends without completion.
	AnalysisStatusError = "error"
)

// TriggerRecord is the single shared document that asks the worker to analyse a plant.
// The worker signals completion by deleting it (or overwriting it with an empty object).
// Repositories return a nil *TriggerRecord for a cleared node.
type TriggerRecord struct {
	PlantID     string `json:"plantId"`
	SensorNode  string `json:"sensorNode"`
	RequestType string `json:"requestType"`
	Timestamp   int64  `json:"timestamp"`           // unix ms, assigned by the store
	Status      string `json:"status,omitempty"`    // "pending" when present
	RequestID   string `json:"requestId,omitempty"` // id of the request that wrote it
}

// AnalysisRequest is the inbound payload of a manual analysis run.
type AnalysisRequest struct {
	PlantID    string `json:"plantId"`
	SensorNode string `json:"sensorNode"`
	// RequestedBy is the authenticated user id; zero for the CLI.
	RequestedBy int `json:"-"`
}

// AnalysisResult is returned to the caller when a run finishes.
type AnalysisResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Status    string `json:"status"` // "completed" | "error"
	RequestID string `json:"requestId,omitempty"`
	Attempts  int    `json:"attempts,omitempty"`
}
