package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/persistence"
)

// PublishingService moves workflows between draft, live and paused.
type PublishingService struct {
	persistence persistence.Persistence
	compiler    Compiler
}

// NewPublishingService creates a new workflow publishing service.
func NewPublishingService(persistence persistence.Persistence, compiler Compiler) *PublishingService {
	return &PublishingService{
		persistence: persistence,
		compiler:    compiler,
	}
}

// Publish makes the workflow live. Only a workflow that compiles can go live,
// so triggers never resolve a graph with unknown node kinds.
func (s *PublishingService) Publish(ctx context.Context, workflowID string) (*models.Workflow, error) {
	workflow, err := s.persistence.WorkflowRepository().GetByID(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow for publishing: %w", err)
	}

	_, err = s.compiler.Compile(workflow)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWorkflow, err)
	}

	return s.setStatus(ctx, workflow, models.WorkflowStatusLive)
}

// Pause stops triggers from resolving a live workflow.
func (s *PublishingService) Pause(ctx context.Context, workflowID string) (*models.Workflow, error) {
	workflow, err := s.persistence.WorkflowRepository().GetByID(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow: %w", err)
	}

	if !workflow.IsLive() {
		return nil, fmt.Errorf("%w: %s", ErrWorkflowNotPublished, workflowID)
	}

	return s.setStatus(ctx, workflow, models.WorkflowStatusPaused)
}

// Unpublish returns the workflow to draft.
func (s *PublishingService) Unpublish(ctx context.Context, workflowID string) (*models.Workflow, error) {
	workflow, err := s.persistence.WorkflowRepository().GetByID(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow: %w", err)
	}

	return s.setStatus(ctx, workflow, models.WorkflowStatusDraft)
}

func (s *PublishingService) setStatus(ctx context.Context, workflow *models.Workflow, status models.WorkflowStatus) (*models.Workflow, error) {
	if workflow.Status == status {
		return workflow, nil
	}

	workflow.Status = status
	workflow.UpdatedAt = time.Now().UTC()

	err := s.persistence.WorkflowRepository().Save(ctx, workflow)
	if err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	return workflow, nil
}
