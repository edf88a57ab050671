// Package web provides HTTP request and response types for the leadflow API.
package web

import (
	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/workflow"
)

// CreateWorkflowRequest represents the request body for creating a new workflow.
type CreateWorkflowRequest struct {
	Name        string                 `json:"name"        validate:"required,min=3"`
	Description string                 `json:"description"`
	Status      models.WorkflowStatus  `json:"status"      validate:"omitempty,oneof=draft live paused"`
	ScopeID     string                 `json:"scope_id"    validate:"required"`
	Nodes       []*models.WorkflowNode `json:"nodes"       validate:"dive,required"`
	Edges       []*models.Edge         `json:"edges"       validate:"dive,required"`
}

// UpdateWorkflowRequest represents the request body for updating an existing workflow.
// Omitted fields keep their stored value; a present nodes or edges list
// replaces the stored one. Status changes go through the publishing endpoints.
type UpdateWorkflowRequest struct {
	Name        *string                `json:"name,omitempty"        validate:"omitempty,min=3"`
	Description *string                `json:"description,omitempty"`
	ScopeID     *string                `json:"scope_id,omitempty"    validate:"omitempty,min=1"`
	Nodes       []*models.WorkflowNode `json:"nodes,omitempty"       validate:"omitempty,dive,required"`
	Edges       []*models.Edge         `json:"edges,omitempty"       validate:"omitempty,dive,required"`
}

// QuoteRequest is sent by the conversational layer once a chat message was
// classified as a quote request.
type QuoteRequest struct {
	ScopeID     string   `json:"scope_id"              validate:"required"`
	Measurement *float64 `json:"measurement,omitempty" validate:"omitempty,gt=0"`
}

// FormSubmissionRequest carries a public form submission.
type FormSubmissionRequest struct {
	ScopeID     string            `json:"scope_id"              validate:"required"`
	ContactID   string            `json:"contact_id,omitempty"`
	Name        string            `json:"name,omitempty"`
	Email       string            `json:"email,omitempty"       validate:"omitempty,email"`
	Phone       string            `json:"phone,omitempty"`
	Address     string            `json:"address,omitempty"`
	Measurement *float64          `json:"measurement,omitempty" validate:"omitempty,gt=0"`
	Fields      map[string]string `json:"fields,omitempty"`
}

// InboundEmailRequest reports a message received from a known contact.
type InboundEmailRequest struct {
	ScopeID   string `json:"scope_id"   validate:"required"`
	ContactID string `json:"contact_id" validate:"required"`
	From      string `json:"from"       validate:"omitempty,email"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// AddTagRequest reports a tag added to a contact.
type AddTagRequest struct {
	ScopeID string `json:"scope_id" validate:"required"`
	Tag     string `json:"tag"      validate:"required"`
}

// TriggerResponse is returned by triggers that resolve at most one workflow.
type TriggerResponse struct {
	Matched bool                `json:"matched"`
	Result  *workflow.RunResult `json:"result,omitempty"`
}

// TriggerBatchResponse is returned by triggers that run every matching workflow.
type TriggerBatchResponse struct {
	Matched int                   `json:"matched"`
	Results []*workflow.RunResult `json:"results"`
}

// AcceptedResponse is returned when a trigger was queued on the event bus.
type AcceptedResponse struct {
	EventID string `json:"event_id"`
	Status  string `json:"status"`
}

// RunResponse is one execution run with its ordered steps.
type RunResponse struct {
	Run   *models.ExecutionRun    `json:"run"`
	Steps []*models.ExecutionStep `json:"steps"`
}

// ActionResponse describes a registered action kind for the editor.
type ActionResponse struct {
	ID          models.ActionKind `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Schema      map[string]any    `json:"schema"`
}

func (r CreateWorkflowRequest) toModel() *models.Workflow {
	return &models.Workflow{
		Name:        r.Name,
		Description: r.Description,
		Status:      r.Status,
		ScopeID:     r.ScopeID,
		Nodes:       r.Nodes,
		Edges:       r.Edges,
	}
}

// apply merges the request into a copy of the stored workflow.
func (r UpdateWorkflowRequest) apply(existing *models.Workflow) *models.Workflow {
	updated := *existing

	if r.Name != nil {
		updated.Name = *r.Name
	}

	if r.Description != nil {
		updated.Description = *r.Description
	}

	if r.ScopeID != nil {
		updated.ScopeID = *r.ScopeID
	}

	if r.Nodes != nil {
		updated.Nodes = r.Nodes
	}

	if r.Edges != nil {
		updated.Edges = r.Edges
	}

	return &updated
}
