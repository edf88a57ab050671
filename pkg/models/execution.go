package models

import "time"

// RunStatus is the state of an execution run.
type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusError   RunStatus = "error"
)

// ExecutionRun is the header record of one workflow run.
type ExecutionRun struct {
	ID             string         `json:"id"`
	WorkflowID     string         `json:"workflow_id"`
	TriggerType    TriggerType    `json:"trigger_type"`
	TriggerPayload map[string]any `json:"trigger_payload,omitempty"`
	Status         RunStatus      `json:"status"`
	ErrorMessage   string         `json:"error_message,omitempty"`
	StartedAt      time.Time      `json:"started_at"`
	FinishedAt     *time.Time     `json:"finished_at,omitempty"`
}

// IsFinished reports whether the run has been closed.
func (r *ExecutionRun) IsFinished() bool {
	return r.FinishedAt != nil
}

// ExecutionStep is one node's outcome within a run. Steps are append-only.
type ExecutionStep struct {
	ID             string         `json:"id"`
	ExecutionRunID string         `json:"execution_run_id"`
	Sequence       int            `json:"sequence"`
	NodeID         string         `json:"node_id"`
	NodeLabel      string         `json:"node_label"`
	ActionKind     ActionKind     `json:"action_kind"`
	Status         StepStatus     `json:"status"`
	ErrorMessage   string         `json:"error_message,omitempty"`
	Output         map[string]any `json:"output,omitempty"`
	FinishedAt     time.Time      `json:"finished_at"`
}
