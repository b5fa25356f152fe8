package entity

import "time"

// ExecutionRecord is one entry in a task unit's append-only audit trail.
// Records are never consulted for control decisions.
type ExecutionRecord struct {
	Timestamp  time.Time      `json:"timestamp"`
	TaskName   string         `json:"task"`
	Inputs     map[string]any `json:"inputs"`
	Outputs    map[string]any `json:"outputs,omitempty"`
	DurationMs int64          `json:"duration_ms"`
	Success    bool           `json:"success"`
	Error      string         `json:"error,omitempty"`
}
