// Package events defines event types and structures for trigger firings and run lifecycle notifications.
package events

import (
	"time"

	"github.com/dukex/leadflow/pkg/models"
	"github.com/google/uuid"
)

type EventType string

// Topic is the single watermill topic every leadflow event is published to.
const Topic = "leadflow.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Run lifecycle events.
	RunStartedEvent  EventType = "execution.run.started"
	StepLoggedEvent  EventType = "execution.step.logged"
	RunFinishedEvent EventType = "execution.run.finished"
)

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	WorkflowID string         `json:"workflow_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func NewBaseEvent(eventType EventType, workflowID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		WorkflowID: workflowID,
		Metadata:   make(map[string]any),
	}
}

type RunStarted struct {
	BaseEvent

	RunID          string             `json:"execution_run_id"`
	TriggerType    models.TriggerType `json:"trigger_type"`
	TriggerPayload map[string]any     `json:"trigger_payload,omitempty"`
}

func (e RunStarted) GetType() EventType {
	return RunStartedEvent
}

type StepLogged struct {
	BaseEvent

	RunID        string            `json:"execution_run_id"`
	Sequence     int               `json:"sequence"`
	NodeID       string            `json:"node_id"`
	ActionKind   models.ActionKind `json:"action_kind"`
	Status       models.StepStatus `json:"status"`
	ErrorMessage string            `json:"error_message,omitempty"`
}

func (e StepLogged) GetType() EventType {
	return StepLoggedEvent
}

type RunFinished struct {
	BaseEvent

	RunID        string           `json:"execution_run_id"`
	Status       models.RunStatus `json:"status"`
	ErrorMessage string           `json:"error_message,omitempty"`
	Duration     time.Duration    `json:"duration"`
}

func (e RunFinished) GetType() EventType {
	return RunFinishedEvent
}
