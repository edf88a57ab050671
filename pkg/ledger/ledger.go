// Package ledger records workflow runs and their steps in the execution log.
//
// The ledger never fails the caller: store errors are logged and swallowed, and
// a run whose header could not be created is tracked under the empty run ID so
// that every later call for it becomes a no-op.
package ledger

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dukex/leadflow/pkg/eventbus"
	"github.com/dukex/leadflow/pkg/events"
	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/persistence"
	"github.com/google/uuid"
)

// NoRun is the run ID returned when the execution log is unavailable.
const NoRun = ""

// AbandonedRunMessage is the error message set on runs closed by the reaper.
const AbandonedRunMessage = "run abandoned"

// Step is one node outcome to record.
type Step struct {
	NodeID       string
	NodeLabel    string
	ActionKind   models.ActionKind
	Status       models.StepStatus
	ErrorMessage string
	Output       map[string]any
}

type openRun struct {
	workflowID string
	startedAt  time.Time
	sequence   int
}

// Ledger writes runs and steps through an ExecutionLogRepository and,
// optionally, announces them on an event bus.
type Ledger struct {
	store     persistence.ExecutionLogRepository
	publisher eventbus.EventPublisher
	logger    *slog.Logger
	now       func() time.Time

	mu   sync.Mutex
	runs map[string]*openRun
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithPublisher publishes run lifecycle events after each successful write.
func WithPublisher(publisher eventbus.EventPublisher) Option {
	return func(l *Ledger) {
		l.publisher = publisher
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// New creates a ledger over the given store.
func New(store persistence.ExecutionLogRepository, logger *slog.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		logger: logger.With("module", "ledger"),
		now:    time.Now,
		runs:   make(map[string]*openRun),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// StartRun opens a run and returns its ID, or NoRun when the store rejected it.
func (l *Ledger) StartRun(ctx context.Context, workflowID string, triggerType models.TriggerType, payload map[string]any) string {
	id, err := uuid.NewV7()
	if err != nil {
		l.logger.ErrorContext(ctx, "failed to generate run id", "workflow_id", workflowID, "error", err)

		return NoRun
	}

	run := &models.ExecutionRun{
		ID:             id.String(),
		WorkflowID:     workflowID,
		TriggerType:    triggerType,
		TriggerPayload: payload,
		Status:         models.RunStatusRunning,
		StartedAt:      l.now().UTC(),
	}

	err = l.store.CreateRun(ctx, run)
	if err != nil {
		l.logger.ErrorContext(ctx, "failed to start execution run", "workflow_id", workflowID, "error", err)

		return NoRun
	}

	l.mu.Lock()
	l.runs[run.ID] = &openRun{workflowID: workflowID, startedAt: run.StartedAt}
	l.mu.Unlock()

	l.publish(ctx, run.ID, events.RunStarted{
		BaseEvent:      events.NewBaseEvent(events.RunStartedEvent, workflowID),
		RunID:          run.ID,
		TriggerType:    triggerType,
		TriggerPayload: payload,
	})

	return run.ID
}

// LogStep appends a step to the run. It is a no-op for NoRun.
func (l *Ledger) LogStep(ctx context.Context, runID string, step Step) {
	if runID == NoRun {
		return
	}

	var (
		sequence   int
		workflowID string
	)

	// Runs closed or opened elsewhere are not tracked; the store decides.
	l.mu.Lock()
	if open, tracked := l.runs[runID]; tracked {
		open.sequence++
		sequence = open.sequence
		workflowID = open.workflowID
	}
	l.mu.Unlock()

	record := &models.ExecutionStep{
		ID:             uuid.NewString(),
		ExecutionRunID: runID,
		Sequence:       sequence,
		NodeID:         step.NodeID,
		NodeLabel:      step.NodeLabel,
		ActionKind:     step.ActionKind,
		Status:         step.Status,
		ErrorMessage:   step.ErrorMessage,
		Output:         step.Output,
		FinishedAt:     l.now().UTC(),
	}

	err := l.store.AppendStep(ctx, record)
	if err != nil {
		l.logger.ErrorContext(ctx, "failed to log execution step",
			"execution_run_id", runID,
			"node_id", step.NodeID,
			"error", err,
		)

		return
	}

	l.publish(ctx, runID, events.StepLogged{
		BaseEvent:    events.NewBaseEvent(events.StepLoggedEvent, workflowID),
		RunID:        runID,
		Sequence:     sequence,
		NodeID:       step.NodeID,
		ActionKind:   step.ActionKind,
		Status:       step.Status,
		ErrorMessage: step.ErrorMessage,
	})
}

// FinishRun closes the run with a terminal status. Only the first call per run
// takes effect; later calls are rejected by the store and logged.
func (l *Ledger) FinishRun(ctx context.Context, runID string, status models.RunStatus, errorMessage string) {
	if runID == NoRun {
		return
	}

	finishedAt := l.now().UTC()

	l.mu.Lock()
	open := l.runs[runID]
	delete(l.runs, runID)
	l.mu.Unlock()

	err := l.store.FinishRun(ctx, runID, status, errorMessage, finishedAt)
	if err != nil {
		l.logger.ErrorContext(ctx, "failed to finish execution run", "execution_run_id", runID, "error", err)

		return
	}

	event := events.RunFinished{
		BaseEvent:    events.NewBaseEvent(events.RunFinishedEvent, ""),
		RunID:        runID,
		Status:       status,
		ErrorMessage: errorMessage,
	}

	if open != nil {
		event.WorkflowID = open.workflowID

		if !open.startedAt.IsZero() {
			event.Duration = finishedAt.Sub(open.startedAt)
		}
	}

	l.publish(ctx, runID, event)
}

// ReapStale closes every run that has been running for longer than maxAge as
// an error and returns how many it closed.
func (l *Ledger) ReapStale(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := l.now().Add(-maxAge)

	runs, err := l.store.ListRunningBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	closed := 0

	for _, run := range runs {
		err := l.store.FinishRun(ctx, run.ID, models.RunStatusError, AbandonedRunMessage, l.now().UTC())
		if err != nil {
			if persistence.IsRunFinished(err) {
				continue
			}

			l.logger.ErrorContext(ctx, "failed to close abandoned run", "execution_run_id", run.ID, "error", err)

			continue
		}

		l.mu.Lock()
		delete(l.runs, run.ID)
		l.mu.Unlock()

		closed++

		l.logger.WarnContext(ctx, "closed abandoned run",
			"execution_run_id", run.ID,
			"workflow_id", run.WorkflowID,
			"started_at", run.StartedAt,
		)
	}

	return closed, nil
}

func (l *Ledger) publish(ctx context.Context, key string, event eventbus.Event) {
	if l.publisher == nil {
		return
	}

	err := l.publisher.Publish(ctx, key, event)
	if err != nil {
		l.logger.WarnContext(ctx, "failed to publish run event", "event_type", event.GetType(), "error", err)
	}
}
