package entity

import "time"

type StageStatus string

const (
	StageStatusSuccess StageStatus = "success"
	StageStatusFailed  StageStatus = "failed"
)

type WorkflowStatus string

const (
	WorkflowStatusSuccess WorkflowStatus = "success"
	WorkflowStatusFailed  WorkflowStatus = "failed"
)

// StageDefinition is one named pipeline step, loaded once at startup.
// Inputs lists the upstream state keys the stage reads; the orchestrator
// assembles the stage input map from exactly these keys.
type StageDefinition struct {
	Name     string   `yaml:"name" json:"name"`
	TaskUnit string   `yaml:"task_unit" json:"task_unit"`
	Inputs   []string `yaml:"inputs" json:"inputs"`
}

// StageResult records a single stage execution. Never mutated after creation.
type StageResult struct {
	Name       string         `json:"name"`
	Status     StageStatus    `json:"status"`
	DurationMs int64          `json:"duration_ms"`
	Outputs    map[string]any `json:"outputs,omitempty"`
	Error      string         `json:"error,omitempty"`
}

type WorkflowResult struct {
	RunID           string         `json:"run_id"`
	Status          WorkflowStatus `json:"status"`
	TotalDurationMs int64          `json:"total_duration_ms"`
	StageResults    []StageResult  `json:"stages"`
	FinalState      map[string]any `json:"outputs"`
	Timestamp       time.Time      `json:"timestamp"`
}

// InitialContext carries the source document and optional classification
// hints into a run.
type InitialContext struct {
	PolicyDocument     string `json:"policy_document"`
	DetectedPolicyType string `json:"detected_policy_type,omitempty"`
	DetectedPolicyCode string `json:"detected_policy_code,omitempty"`
	ForceType          bool   `json:"force_type,omitempty"`
}

// AsInputs flattens the context into stage input keys. Empty hints are
// omitted so downstream presence checks stay meaningful.
func (c InitialContext) AsInputs() map[string]any {
	inputs := map[string]any{
		"policy_document": c.PolicyDocument,
	}
	if c.DetectedPolicyType != "" {
		inputs["detected_policy_type"] = c.DetectedPolicyType
	}
	if c.DetectedPolicyCode != "" {
		inputs["detected_policy_code"] = c.DetectedPolicyCode
	}
	if c.ForceType {
		inputs["force_type"] = true
	}
	return inputs
}

// WorkflowState is the single-owner accumulation of stage outputs for one
// run. Keys are only ever added or overwritten, never removed.
type WorkflowState struct {
	values map[string]any
}

func NewWorkflowState() *WorkflowState {
	return &WorkflowState{values: make(map[string]any)}
}

func (s *WorkflowState) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Merge folds a completed stage's outputs into the state, last writer wins.
func (s *WorkflowState) Merge(outputs map[string]any) {
	for k, v := range outputs {
		s.values[k] = v
	}
}

func (s *WorkflowState) Snapshot() map[string]any {
	snapshot := make(map[string]any, len(s.values))
	for k, v := range s.values {
		snapshot[k] = v
	}
	return snapshot
}
