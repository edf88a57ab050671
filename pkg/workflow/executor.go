package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/dukex/leadflow/pkg/graph"
	"github.com/dukex/leadflow/pkg/ledger"
	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/otelhelper"
	"github.com/dukex/leadflow/pkg/protocol"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DocumentFailureMessage is handed to the conversational layer when the quote
// document could not be generated.
const DocumentFailureMessage = "The quote document could not be generated right now. " +
	"Apologize to the customer and tell them the team will send the quote shortly."

const conditionSkipReason = "condition nodes are not executed"

// ActionCreator builds the handler for a parsed action configuration.
type ActionCreator interface {
	CreateAction(config models.ActionConfig) (protocol.Action, error)
}

// RunResult is the small summary returned to the caller of a run.
type RunResult struct {
	WorkflowID      string           `json:"workflow_id"`
	RunID           string           `json:"run_id,omitempty"`
	Status          models.RunStatus `json:"status"`
	DocumentURL     string           `json:"document_url,omitempty"`
	EmailSent       bool             `json:"email_sent"`
	ChatMessageSent bool             `json:"chat_message_sent"`
	AIResponse      string           `json:"ai_response,omitempty"`
	ErrorMessage    string           `json:"error_message,omitempty"`
	UserMessage     string           `json:"user_message,omitempty"`
	FailedNodes     []string         `json:"failed_nodes,omitempty"`
}

type Executor struct {
	actions ActionCreator
	ledger  *ledger.Ledger
	tracer  trace.Tracer
	logger  *slog.Logger
}

func NewExecutor(actions ActionCreator, ledger *ledger.Ledger, tracer trace.Tracer, logger *slog.Logger) *Executor {
	if tracer == nil {
		tracer = otelhelper.NoopTracer()
	}

	return &Executor{
		actions: actions,
		ledger:  ledger,
		tracer:  tracer,
		logger:  logger.With("module", "workflow_executor"),
	}
}

// Run executes the reachable action nodes of the graph in order, one at a
// time, and records each outcome in the execution log. It never returns an
// error: failures are reflected in the result and the audit trail.
//
// Quote and form runs stop at the first failed step. Other runs record the
// failure and go on with the next node.
func (e *Executor) Run(ctx context.Context, workflowGraph *models.WorkflowGraph, triggerType models.TriggerType, rc *models.RunContext) *RunResult {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.run",
		attribute.String(otelhelper.WorkflowIDKey, workflowGraph.WorkflowID),
		attribute.String(otelhelper.WorkflowNameKey, workflowGraph.Name),
		attribute.String(otelhelper.TriggerTypeKey, string(triggerType)),
	)
	defer span.End()

	if rc == nil {
		rc = &models.RunContext{}
	}

	runID := e.ledger.StartRun(ctx, workflowGraph.WorkflowID, triggerType, rc.Payload())
	span.SetAttributes(attribute.String(otelhelper.ExecutionRunIDKey, runID))

	logger := e.logger.With(
		"workflow_id", workflowGraph.WorkflowID,
		"execution_run_id", runID,
		"trigger_type", triggerType,
	)

	result := &RunResult{
		WorkflowID: workflowGraph.WorkflowID,
		RunID:      runID,
		Status:     models.RunStatusSuccess,
	}

	nodes := graph.OrderedActions(workflowGraph.Nodes, workflowGraph.Edges)
	outputs := models.StepOutputs{}

	logger.InfoContext(ctx, "starting workflow run", "nodes", len(nodes))

	for _, node := range nodes {
		step := e.runStep(ctx, logger, node, models.ActionInput{Run: rc, Outputs: outputs})

		e.ledger.LogStep(ctx, runID, ledger.Step{
			NodeID:       node.ID,
			NodeLabel:    node.Label,
			ActionKind:   node.ActionKind(),
			Status:       step.Status,
			ErrorMessage: step.ErrorMessage,
			Output:       step.Output,
		})

		outputs = outputs.With(step.Exports)
		result.record(node, step)

		if step.Status == models.StepStatusError && triggerType.AbortsOnError() {
			result.Status = models.RunStatusError
			result.ErrorMessage = step.ErrorMessage

			logger.WarnContext(ctx, "aborting workflow run after failed step", "node_id", node.ID, "error", step.ErrorMessage)

			break
		}
	}

	e.ledger.FinishRun(ctx, runID, result.Status, result.ErrorMessage)

	span.SetAttributes(attribute.String(otelhelper.RunStatusKey, string(result.Status)))

	if result.Status == models.RunStatusError {
		otelhelper.SetError(span, fmt.Errorf("workflow run failed: %s", result.ErrorMessage))
	}

	logger.InfoContext(ctx, "finished workflow run",
		"status", result.Status,
		"failed_nodes", len(result.FailedNodes),
	)

	return result
}

func (e *Executor) runStep(ctx context.Context, logger *slog.Logger, node *models.GraphNode, input models.ActionInput) models.ActionResult {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.step",
		attribute.String(otelhelper.NodeIDKey, node.ID),
		attribute.String(otelhelper.NodeLabelKey, node.Label),
		attribute.String(otelhelper.ActionKindKey, string(node.ActionKind())),
	)
	defer span.End()

	logger = logger.With("node_id", node.ID, "action_kind", node.ActionKind())

	result := e.dispatch(ctx, logger, node, input)

	span.SetAttributes(attribute.String(otelhelper.StepStatusKey, string(result.Status)))

	switch result.Status {
	case models.StepStatusError:
		otelhelper.SetError(span, fmt.Errorf("%s", result.ErrorMessage))
		logger.ErrorContext(ctx, "step failed", "error", result.ErrorMessage)
	case models.StepStatusSkipped:
		logger.InfoContext(ctx, "step skipped", "reason", result.ErrorMessage)
	default:
		logger.InfoContext(ctx, "step completed")
	}

	return result
}

// dispatch runs one node. Handler errors and panics become error results so
// that the step is always logged.
func (e *Executor) dispatch(ctx context.Context, logger *slog.Logger, node *models.GraphNode, input models.ActionInput) (result models.ActionResult) {
	if node.Action == nil {
		return models.Skipped(conditionSkipReason)
	}

	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "action panicked", "panic", r, "stack", string(debug.Stack()))

			result = models.Failed(fmt.Sprintf("unexpected error: %v", r))
		}
	}()

	action, err := e.actions.CreateAction(node.Action)
	if err != nil {
		return models.Skipped(fmt.Sprintf("unsupported action: %v", err))
	}

	result, err = action.Execute(ctx, input, logger)
	if err != nil {
		return models.Failed(err.Error())
	}

	return result
}

func (r *RunResult) record(node *models.GraphNode, step models.ActionResult) {
	switch step.Status {
	case models.StepStatusError:
		r.FailedNodes = append(r.FailedNodes, node.ID)

		if node.ActionKind() == models.ActionKindGenerateDocument {
			r.UserMessage = DocumentFailureMessage
		}

		return
	case models.StepStatusSkipped:
		return
	}

	switch node.ActionKind() {
	case models.ActionKindGenerateDocument:
		r.DocumentURL = step.Exports[models.OutputDocumentURL]
	case models.ActionKindSendEmail:
		r.EmailSent = true
	case models.ActionKindSendChatMessage:
		r.ChatMessageSent = true
	case models.ActionKindInvokeModel:
		r.AIResponse = step.Exports[models.OutputAIResponse]
	}
}
