// Package persistence provides data storage abstraction layer for workflows and their execution log.
package persistence

import (
	"context"
	"time"

	"github.com/dukex/leadflow/pkg/models"
)

// Persistence groups the repositories backed by one storage provider.
type Persistence interface {
	WorkflowRepository() WorkflowRepository
	ExecutionLogRepository() ExecutionLogRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// WorkflowRepository stores authored workflows.
type WorkflowRepository interface {
	GetAll(ctx context.Context) ([]*models.Workflow, error)
	GetByID(ctx context.Context, id string) (*models.Workflow, error)
	Save(ctx context.Context, workflow *models.Workflow) error
	Delete(ctx context.Context, id string) error

	// ListLive returns the live workflows of a scope, oldest first.
	ListLive(ctx context.Context, scopeID string) ([]*models.Workflow, error)
}

// ExecutionLogRepository is the append-only writer and reader of runs and steps.
//
// Implementations must reject AppendStep on a finished run with ErrRunFinished
// and a second FinishRun with ErrRunAlreadyFinished, atomically.
type ExecutionLogRepository interface {
	CreateRun(ctx context.Context, run *models.ExecutionRun) error
	AppendStep(ctx context.Context, step *models.ExecutionStep) error
	FinishRun(ctx context.Context, runID string, status models.RunStatus, errorMessage string, finishedAt time.Time) error

	GetRun(ctx context.Context, runID string) (*models.ExecutionRun, error)
	ListSteps(ctx context.Context, runID string) ([]*models.ExecutionStep, error)
	ListRunsByWorkflow(ctx context.Context, workflowID string) ([]*models.ExecutionRun, error)

	// ListRunningBefore returns runs still running that started before the cutoff.
	ListRunningBefore(ctx context.Context, cutoff time.Time) ([]*models.ExecutionRun, error)
}
