// Package web provides HTTP handlers for workflow management, trigger intake
// and the execution audit trail.
package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukex/leadflow/pkg/eventbus"
	"github.com/dukex/leadflow/pkg/events"
	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/persistence"
	"github.com/dukex/leadflow/pkg/registry"
	"github.com/dukex/leadflow/pkg/workflow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

const queuedStatus = "queued"

type APIHandlers struct {
	workflows  *workflow.Repository
	publishing *workflow.PublishingService
	triggers   *workflow.Service
	runs       persistence.ExecutionLogRepository
	publisher  eventbus.EventPublisher
	validator  *validator.Validate
	registry   *registry.Registry
	logger     *slog.Logger
}

// NewAPIHandlers wires the handlers. A nil publisher makes the asynchronous
// trigger endpoints run their workflows inline.
func NewAPIHandlers(
	workflows *workflow.Repository,
	publishing *workflow.PublishingService,
	triggers *workflow.Service,
	runs persistence.ExecutionLogRepository,
	publisher eventbus.EventPublisher,
	validator *validator.Validate,
	registry *registry.Registry,
	logger *slog.Logger,
) *APIHandlers {
	return &APIHandlers{
		workflows:  workflows,
		publishing: publishing,
		triggers:   triggers,
		runs:       runs,
		publisher:  publisher,
		validator:  validator,
		registry:   registry,
		logger:     logger,
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	registryCheck, regOk := h.registry.HealthCheck()
	repositoryCheck, repOk := h.workflows.HealthCheck(c.Context())

	status := "unhealthy"
	message := "leadflow API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if regOk && repOk {
		status = "healthy"
		message = "leadflow API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"registry":   registryCheck,
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

// GetWorkflows lists workflows, optionally filtered by scope_id and status.
func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	all, err := h.workflows.FetchAll(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	scopeID := c.Query("scope_id")
	status := models.WorkflowStatus(c.Query("status"))

	workflows := make([]*models.Workflow, 0, len(all))

	for _, wf := range all {
		if scopeID != "" && wf.ScopeID != scopeID {
			continue
		}

		if status != "" && wf.Status != status {
			continue
		}

		workflows = append(workflows, wf)
	}

	return c.JSON(workflows)
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	wf, err := h.workflows.FetchByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(wf)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var req CreateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.workflows.Create(c.Context(), req.toModel())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateWorkflow(c fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	existing, err := h.workflows.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	updated, err := h.workflows.Update(c.Context(), id, req.apply(existing))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	err := h.workflows.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) PublishWorkflow(c fiber.Ctx) error {
	wf, err := h.publishing.Publish(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(wf)
}

func (h *APIHandlers) PauseWorkflow(c fiber.Ctx) error {
	wf, err := h.publishing.Pause(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(wf)
}

func (h *APIHandlers) UnpublishWorkflow(c fiber.Ctx) error {
	wf, err := h.publishing.Unpublish(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(wf)
}

// GetWorkflowRuns lists the execution runs of a workflow, newest first.
func (h *APIHandlers) GetWorkflowRuns(c fiber.Ctx) error {
	id := c.Params("id")

	_, err := h.workflows.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	runs, err := h.runs.ListRunsByWorkflow(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	if runs == nil {
		runs = []*models.ExecutionRun{}
	}

	return c.JSON(runs)
}

func (h *APIHandlers) GetRun(c fiber.Ctx) error {
	id := c.Params("id")

	run, err := h.runs.GetRun(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	steps, err := h.runs.ListSteps(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	if steps == nil {
		steps = []*models.ExecutionStep{}
	}

	return c.JSON(RunResponse{Run: run, Steps: steps})
}

func (h *APIHandlers) ListActions(c fiber.Ctx) error {
	factories := h.registry.ActionFactories()
	actions := make([]ActionResponse, 0, len(factories))

	for _, factory := range factories {
		actions = append(actions, ActionResponse{
			ID:          factory.ID(),
			Name:        factory.Name(),
			Description: factory.Description(),
			Schema:      factory.Schema(),
		})
	}

	return c.JSON(actions)
}

// RequestQuote runs the quote workflow of the widget for a chat conversation
// and waits for its result.
func (h *APIHandlers) RequestQuote(c fiber.Ctx) error {
	var req QuoteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	event := events.NewQuoteRequested(c.Params("id"), req.ScopeID, req.Measurement)

	result, err := h.triggers.HandleQuoteIntent(c.Context(), event)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(TriggerResponse{Matched: result != nil, Result: result})
}

// SubmitForm runs the workflow bound to the form and waits for its result.
func (h *APIHandlers) SubmitForm(c fiber.Ctx) error {
	var req FormSubmissionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	event := events.FormSubmitted{
		BaseEvent:   events.NewBaseEvent(events.FormSubmittedEvent, ""),
		FormID:      c.Params("formId"),
		ScopeID:     req.ScopeID,
		ContactID:   req.ContactID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		Measurement: req.Measurement,
		Fields:      req.Fields,
	}

	result, err := h.triggers.HandleFormSubmitted(c.Context(), event)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(TriggerResponse{Matched: result != nil, Result: result})
}

func (h *APIHandlers) InboundEmail(c fiber.Ctx) error {
	var req InboundEmailRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	event := events.NewEmailReceived(req.ScopeID, req.ContactID, req.From, req.Subject, req.Body)

	if h.publisher != nil {
		return h.enqueue(c, event.ContactID, event, event.ID)
	}

	results, err := h.triggers.HandleEmailReceived(c.Context(), event)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(batch(results))
}

func (h *APIHandlers) AddTag(c fiber.Ctx) error {
	var req AddTagRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	event := events.NewTagAdded(req.ScopeID, c.Params("id"), req.Tag)

	if h.publisher != nil {
		return h.enqueue(c, event.ContactID, event, event.ID)
	}

	results, err := h.triggers.HandleTagAdded(c.Context(), event)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(batch(results))
}

func (h *APIHandlers) enqueue(c fiber.Ctx, key string, event eventbus.Event, eventID string) error {
	if validatable, ok := event.(interface{ Validate() error }); ok {
		if err := validatable.Validate(); err != nil {
			return badRequest(c, err.Error())
		}
	}

	err := h.publisher.Publish(c.Context(), key, event)
	if err != nil {
		h.logger.ErrorContext(c.Context(), "failed to publish trigger event", "event_type", event.GetType(), "error", err)

		return internalError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(AcceptedResponse{EventID: eventID, Status: queuedStatus})
}

func batch(results []*workflow.RunResult) TriggerBatchResponse {
	if results == nil {
		results = []*workflow.RunResult{}
	}

	return TriggerBatchResponse{Matched: len(results), Results: results}
}
