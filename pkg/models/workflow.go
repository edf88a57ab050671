// Package models defines the core domain models for trigger-driven CRM workflow automation
package models

import "time"

// WorkflowStatus represents the lifecycle state of a workflow.
type WorkflowStatus string

const (
	WorkflowStatusDraft  WorkflowStatus = "draft"  // Editable, never resolved by triggers
	WorkflowStatusLive   WorkflowStatus = "live"   // Resolved by triggers in its scope
	WorkflowStatusPaused WorkflowStatus = "paused" // Kept, but ignored by triggers
)

// Workflow is the persisted automation graph as authored in the editor.
type Workflow struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"        validate:"required,min=3"`
	Description string          `json:"description"`
	Status      WorkflowStatus  `json:"status"      validate:"required,oneof=draft live paused"`
	ScopeID     string          `json:"scope_id"    validate:"required"` // Widget, form owner or account the workflow belongs to
	Nodes       []*WorkflowNode `json:"nodes"`
	Edges       []*Edge         `json:"edges"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// IsLive reports whether triggers may resolve the workflow.
func (w *Workflow) IsLive() bool {
	return w.Status == WorkflowStatusLive
}

// TriggerNode returns the first trigger node of the workflow, or nil.
func (w *Workflow) TriggerNode() *WorkflowNode {
	for _, node := range w.Nodes {
		if node.Kind == NodeKindTrigger {
			return node
		}
	}

	return nil
}
