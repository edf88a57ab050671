package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/persistence"
)

const runColumns = `
			id
		  , workflow_id
		  , trigger_type
		  , trigger_payload
		  , status
		  , error_message
		  , started_at
		  , finished_at`

// ExecutionLogRepository persists runs and their steps.
type ExecutionLogRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewExecutionLogRepository creates a new execution log repository.
func NewExecutionLogRepository(db *sql.DB, logger *slog.Logger) *ExecutionLogRepository {
	return &ExecutionLogRepository{db: db, logger: logger}
}

// CreateRun inserts a run header.
func (r *ExecutionLogRepository) CreateRun(ctx context.Context, run *models.ExecutionRun) error {
	payloadJSON, err := json.Marshal(nonNilMap(run.TriggerPayload))
	if err != nil {
		return fmt.Errorf("failed to marshal trigger payload: %w", err)
	}

	query := `
		INSERT INTO execution_runs (id, workflow_id, trigger_type, trigger_payload, status, error_message, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.db.ExecContext(ctx, query,
		run.ID,
		run.WorkflowID,
		run.TriggerType,
		payloadJSON,
		run.Status,
		nullString(run.ErrorMessage),
		run.StartedAt.UTC(),
	)
	if err != nil {
		return persistence.NewRunError("CreateRun", run.ID, err)
	}

	return nil
}

// AppendStep inserts a step while holding the run row lock, so a concurrent
// FinishRun cannot interleave.
func (r *ExecutionLogRepository) AppendStep(ctx context.Context, step *models.ExecutionStep) (err error) {
	outputJSON, err := json.Marshal(nonNilMap(step.Output))
	if err != nil {
		return fmt.Errorf("failed to marshal step output: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var finishedAt sql.NullTime

	err = tx.QueryRowContext(ctx, `SELECT finished_at FROM execution_runs WHERE id = $1 FOR UPDATE`, step.ExecutionRunID).Scan(&finishedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.NewRunError("AppendStep", step.ExecutionRunID, persistence.ErrRunNotFound)
		}

		return persistence.NewRunError("AppendStep", step.ExecutionRunID, err)
	}

	if finishedAt.Valid {
		return persistence.NewRunError("AppendStep", step.ExecutionRunID, persistence.ErrRunFinished)
	}

	query := `
		INSERT INTO execution_steps (id, execution_run_id, sequence, node_id, node_label, action_kind, status, error_message, output, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = tx.ExecContext(ctx, query,
		step.ID,
		step.ExecutionRunID,
		step.Sequence,
		step.NodeID,
		step.NodeLabel,
		step.ActionKind,
		step.Status,
		nullString(step.ErrorMessage),
		outputJSON,
		step.FinishedAt.UTC(),
	)
	if err != nil {
		return persistence.NewRunError("AppendStep", step.ExecutionRunID, err)
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit step: %w", err)
	}

	return nil
}

// FinishRun closes a run. Only the first call for a run updates it.
func (r *ExecutionLogRepository) FinishRun(ctx context.Context, runID string, status models.RunStatus, errorMessage string, finishedAt time.Time) error {
	query := `
		UPDATE execution_runs
		SET status = $2, error_message = $3, finished_at = $4
		WHERE id = $1 AND finished_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, runID, status, nullString(errorMessage), finishedAt.UTC())
	if err != nil {
		return persistence.NewRunError("FinishRun", runID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return persistence.NewRunError("FinishRun", runID, err)
	}

	if affected == 1 {
		return nil
	}

	var exists bool

	err = r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM execution_runs WHERE id = $1)`, runID).Scan(&exists)
	if err != nil {
		return persistence.NewRunError("FinishRun", runID, err)
	}

	if !exists {
		return persistence.NewRunError("FinishRun", runID, persistence.ErrRunNotFound)
	}

	return persistence.NewRunError("FinishRun", runID, persistence.ErrRunAlreadyFinished)
}

// GetRun returns one run header.
func (r *ExecutionLogRepository) GetRun(ctx context.Context, runID string) (*models.ExecutionRun, error) {
	query := `SELECT` + runColumns + ` FROM execution_runs WHERE id = $1`

	run, err := scanRun(r.db.QueryRowContext(ctx, query, runID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewRunError("GetRun", runID, persistence.ErrRunNotFound)
		}

		return nil, persistence.NewRunError("GetRun", runID, err)
	}

	return run, nil
}

// ListSteps returns the steps of a run in sequence order.
func (r *ExecutionLogRepository) ListSteps(ctx context.Context, runID string) ([]*models.ExecutionStep, error) {
	query := `
		SELECT id, execution_run_id, sequence, node_id, node_label, action_kind, status, error_message, output, finished_at
		FROM execution_steps
		WHERE execution_run_id = $1
		ORDER BY sequence ASC
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query execution steps: %w", err)
	}

	defer closeRows(ctx, r.logger, rows)

	steps := make([]*models.ExecutionStep, 0)

	for rows.Next() {
		var (
			step         models.ExecutionStep
			errorMessage sql.NullString
			outputJSON   []byte
		)

		err := rows.Scan(
			&step.ID,
			&step.ExecutionRunID,
			&step.Sequence,
			&step.NodeID,
			&step.NodeLabel,
			&step.ActionKind,
			&step.Status,
			&errorMessage,
			&outputJSON,
			&step.FinishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution step: %w", err)
		}

		step.ErrorMessage = errorMessage.String

		err = json.Unmarshal(outputJSON, &step.Output)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal step output: %w", err)
		}

		steps = append(steps, &step)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating execution steps: %w", err)
	}

	return steps, nil
}

// ListRunsByWorkflow returns the runs of a workflow, newest first.
func (r *ExecutionLogRepository) ListRunsByWorkflow(ctx context.Context, workflowID string) ([]*models.ExecutionRun, error) {
	query := `SELECT` + runColumns + `
		FROM execution_runs
		WHERE workflow_id = $1
		ORDER BY started_at DESC
	`

	return r.queryRuns(ctx, query, workflowID)
}

// ListRunningBefore returns runs still running that started before the cutoff.
func (r *ExecutionLogRepository) ListRunningBefore(ctx context.Context, cutoff time.Time) ([]*models.ExecutionRun, error) {
	query := `SELECT` + runColumns + `
		FROM execution_runs
		WHERE finished_at IS NULL AND started_at < $1
		ORDER BY started_at DESC
	`

	return r.queryRuns(ctx, query, cutoff.UTC())
}

func (r *ExecutionLogRepository) queryRuns(ctx context.Context, query string, args ...any) ([]*models.ExecutionRun, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query execution runs: %w", err)
	}

	defer closeRows(ctx, r.logger, rows)

	runs := make([]*models.ExecutionRun, 0)

	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution run: %w", err)
		}

		runs = append(runs, run)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating execution runs: %w", err)
	}

	return runs, nil
}

func scanRun(row scanner) (*models.ExecutionRun, error) {
	var (
		run          models.ExecutionRun
		payloadJSON  []byte
		errorMessage sql.NullString
		finishedAt   sql.NullTime
	)

	err := row.Scan(
		&run.ID,
		&run.WorkflowID,
		&run.TriggerType,
		&payloadJSON,
		&run.Status,
		&errorMessage,
		&run.StartedAt,
		&finishedAt,
	)
	if err != nil {
		return nil, err
	}

	run.ErrorMessage = errorMessage.String

	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}

	err = json.Unmarshal(payloadJSON, &run.TriggerPayload)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal trigger payload: %w", err)
	}

	return &run, nil
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func nonNilMap[M ~map[K]V, K comparable, V any](m M) M {
	if m == nil {
		return M{}
	}

	return m
}
