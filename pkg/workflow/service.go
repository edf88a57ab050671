package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dukex/leadflow/pkg/events"
	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/persistence"
	"github.com/dukex/leadflow/pkg/protocol"
)

// Compiler turns a stored workflow into an executable graph.
type Compiler interface {
	Compile(workflow *models.Workflow) (*models.WorkflowGraph, error)
}

// Service resolves trigger events to live workflows and runs them.
type Service struct {
	workflows persistence.WorkflowRepository
	compiler  Compiler
	executor  *Executor
	contacts  protocol.ContactStore
	logger    *slog.Logger
}

func NewService(
	workflows persistence.WorkflowRepository,
	compiler Compiler,
	executor *Executor,
	contacts protocol.ContactStore,
	logger *slog.Logger,
) *Service {
	return &Service{
		workflows: workflows,
		compiler:  compiler,
		executor:  executor,
		contacts:  contacts,
		logger:    logger.With("module", "workflow_service"),
	}
}

// HandleQuoteIntent runs the quote workflow of the widget scope for a chat
// conversation. It returns nil when no live workflow handles quote requests.
func (s *Service) HandleQuoteIntent(ctx context.Context, event events.QuoteRequested) (*RunResult, error) {
	err := event.Validate()
	if err != nil {
		return nil, err
	}

	graphs, err := s.liveGraphs(ctx, event.ScopeID)
	if err != nil {
		return nil, err
	}

	matched := MatchQuoteIntent(graphs)
	if matched == nil {
		s.logger.InfoContext(ctx, "no quote workflow for scope", "scope_id", event.ScopeID)

		return nil, nil
	}

	contact, err := s.contacts.ContactForConversation(ctx, event.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contact for conversation %s: %w", event.ConversationID, err)
	}

	rc := &models.RunContext{
		ConversationID: event.ConversationID,
		ScopeID:        event.ScopeID,
		Contact:        contact,
		Measurement:    event.Measurement,
	}

	return s.executor.Run(ctx, matched, models.TriggerTypeQuote, rc), nil
}

// HandleFormSubmitted runs the workflow configured for the submitted form. It
// returns nil when no live workflow handles the form.
func (s *Service) HandleFormSubmitted(ctx context.Context, event events.FormSubmitted) (*RunResult, error) {
	err := event.Validate()
	if err != nil {
		return nil, err
	}

	graphs, err := s.liveGraphs(ctx, event.ScopeID)
	if err != nil {
		return nil, err
	}

	matched := MatchFormSubmit(graphs, event.FormID)
	if matched == nil {
		s.logger.InfoContext(ctx, "no workflow for form", "form_id", event.FormID, "scope_id", event.ScopeID)

		return nil, nil
	}

	contact, err := s.formContact(ctx, event)
	if err != nil {
		return nil, err
	}

	rc := &models.RunContext{
		FormID:      event.FormID,
		ScopeID:     event.ScopeID,
		Contact:     contact,
		Measurement: event.Measurement,
		FormFields:  event.Fields,
	}

	return s.executor.Run(ctx, matched, models.TriggerTypeFormSubmitted, rc), nil
}

// HandleEmailReceived runs every workflow listening on the mailbox scope.
func (s *Service) HandleEmailReceived(ctx context.Context, event events.EmailReceived) ([]*RunResult, error) {
	err := event.Validate()
	if err != nil {
		return nil, err
	}

	graphs, err := s.liveGraphs(ctx, event.ScopeID)
	if err != nil {
		return nil, err
	}

	matched := MatchEmailReceived(graphs, event.ScopeID)
	if len(matched) == 0 {
		return nil, nil
	}

	contact, err := s.contact(ctx, event.ContactID)
	if err != nil {
		return nil, err
	}

	rc := &models.RunContext{
		ScopeID: event.ScopeID,
		Contact: contact,
		InboundEmail: &models.InboundEmail{
			From:    event.From,
			Subject: event.Subject,
			Body:    event.Body,
		},
	}

	return s.runAll(ctx, matched, models.TriggerTypeEmailReceived, rc), nil
}

// HandleTagAdded runs every workflow of the scope whose trigger accepts the tag.
func (s *Service) HandleTagAdded(ctx context.Context, event events.TagAdded) ([]*RunResult, error) {
	err := event.Validate()
	if err != nil {
		return nil, err
	}

	graphs, err := s.liveGraphs(ctx, event.ScopeID)
	if err != nil {
		return nil, err
	}

	matched := MatchTagAdded(graphs, event.ScopeID, event.Tag)
	if len(matched) == 0 {
		return nil, nil
	}

	contact, err := s.contact(ctx, event.ContactID)
	if err != nil {
		return nil, err
	}

	rc := &models.RunContext{
		ScopeID:  event.ScopeID,
		Contact:  contact,
		TagAdded: event.Tag,
	}

	return s.runAll(ctx, matched, models.TriggerTypeTagAdded, rc), nil
}

func (s *Service) runAll(ctx context.Context, graphs []*models.WorkflowGraph, triggerType models.TriggerType, rc *models.RunContext) []*RunResult {
	results := make([]*RunResult, 0, len(graphs))

	for _, g := range graphs {
		results = append(results, s.executor.Run(ctx, g, triggerType, rc.Clone()))
	}

	return results
}

// liveGraphs compiles the live workflows of a scope. Workflows that no longer
// compile are logged and left out.
func (s *Service) liveGraphs(ctx context.Context, scopeID string) ([]*models.WorkflowGraph, error) {
	workflows, err := s.workflows.ListLive(ctx, scopeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list live workflows for scope %s: %w", scopeID, err)
	}

	graphs := make([]*models.WorkflowGraph, 0, len(workflows))

	for _, workflow := range workflows {
		g, err := s.compiler.Compile(workflow)
		if err != nil {
			s.logger.ErrorContext(ctx, "skipping workflow that does not compile",
				"workflow_id", workflow.ID,
				"error", err,
			)

			continue
		}

		graphs = append(graphs, g)
	}

	return graphs, nil
}

// contact loads a contact by ID. An unknown contact is represented by its ID
// alone so that handlers can report it.
func (s *Service) contact(ctx context.Context, contactID string) (*models.Contact, error) {
	contact, err := s.contacts.Contact(ctx, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contact %s: %w", contactID, err)
	}

	if contact == nil {
		return &models.Contact{ID: contactID}, nil
	}

	return contact, nil
}

// formContact prefers the stored contact and fills blanks from the submission.
func (s *Service) formContact(ctx context.Context, event events.FormSubmitted) (*models.Contact, error) {
	contact := &models.Contact{ScopeID: event.ScopeID}

	if event.ContactID != "" {
		stored, err := s.contact(ctx, event.ContactID)
		if err != nil {
			return nil, err
		}

		contact = stored
	}

	fill := func(field *string, submitted string) {
		if *field == "" {
			*field = submitted
		}
	}

	fill(&contact.Name, event.Name)
	fill(&contact.Email, event.Email)
	fill(&contact.Phone, event.Phone)
	fill(&contact.Address, event.Address)

	return contact, nil
}
