package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/persistence"
)

// runRecord is the on-disk layout of one run: the header plus its steps.
type runRecord struct {
	Run   *models.ExecutionRun    `json:"run"`
	Steps []*models.ExecutionStep `json:"steps"`
}

// ExecutionLogRepository stores each run and its steps in a single JSON file.
// A process-wide mutex serialises writes so the finished-run guards are atomic.
type ExecutionLogRepository struct {
	root string
	mu   sync.Mutex
}

// NewExecutionLogRepository creates a new execution log repository.
func NewExecutionLogRepository(root string) *ExecutionLogRepository {
	return &ExecutionLogRepository{root: root}
}

func (r *ExecutionLogRepository) dir() string {
	return filepath.Join(r.root, "runs")
}

func (r *ExecutionLogRepository) path(runID string) string {
	return filepath.Join(r.dir(), runID+".json")
}

func (r *ExecutionLogRepository) load(runID string) (*runRecord, error) {
	if err := validateID(runID); err != nil {
		return nil, err
	}

	body, err := os.ReadFile(r.path(runID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrRunNotFound
		}

		return nil, fmt.Errorf("failed to read execution run %s: %w", runID, err)
	}

	var record runRecord

	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal execution run %s: %w", runID, err)
	}

	return &record, nil
}

func (r *ExecutionLogRepository) store(record *runRecord) error {
	if err := os.MkdirAll(r.dir(), 0750); err != nil {
		return fmt.Errorf("failed to create runs directory: %w", err)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal execution run %s: %w", record.Run.ID, err)
	}

	return os.WriteFile(r.path(record.Run.ID), data, 0600)
}

// CreateRun persists a new run header.
func (r *ExecutionLogRepository) CreateRun(_ context.Context, run *models.ExecutionRun) error {
	if err := validateID(run.ID); err != nil {
		return persistence.NewRunError("CreateRun", run.ID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store(&runRecord{Run: run, Steps: []*models.ExecutionStep{}}); err != nil {
		return persistence.NewRunError("CreateRun", run.ID, err)
	}

	return nil
}

// AppendStep adds a step to an open run.
func (r *ExecutionLogRepository) AppendStep(_ context.Context, step *models.ExecutionStep) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, err := r.load(step.ExecutionRunID)
	if err != nil {
		return persistence.NewRunError("AppendStep", step.ExecutionRunID, err)
	}

	if record.Run.IsFinished() {
		return persistence.NewRunError("AppendStep", step.ExecutionRunID, persistence.ErrRunFinished)
	}

	record.Steps = append(record.Steps, step)

	if err := r.store(record); err != nil {
		return persistence.NewRunError("AppendStep", step.ExecutionRunID, err)
	}

	return nil
}

// FinishRun closes a run exactly once.
func (r *ExecutionLogRepository) FinishRun(_ context.Context, runID string, status models.RunStatus, errorMessage string, finishedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, err := r.load(runID)
	if err != nil {
		return persistence.NewRunError("FinishRun", runID, err)
	}

	if record.Run.IsFinished() {
		return persistence.NewRunError("FinishRun", runID, persistence.ErrRunAlreadyFinished)
	}

	finishedAt = finishedAt.UTC()
	record.Run.Status = status
	record.Run.ErrorMessage = errorMessage
	record.Run.FinishedAt = &finishedAt

	if err := r.store(record); err != nil {
		return persistence.NewRunError("FinishRun", runID, err)
	}

	return nil
}

// GetRun returns the run header.
func (r *ExecutionLogRepository) GetRun(_ context.Context, runID string) (*models.ExecutionRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, err := r.load(runID)
	if err != nil {
		return nil, persistence.NewRunError("GetRun", runID, err)
	}

	return record.Run, nil
}

// ListSteps returns the steps of a run in sequence order.
func (r *ExecutionLogRepository) ListSteps(_ context.Context, runID string) ([]*models.ExecutionStep, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, err := r.load(runID)
	if err != nil {
		return nil, persistence.NewRunError("ListSteps", runID, err)
	}

	sort.SliceStable(record.Steps, func(i, j int) bool {
		return record.Steps[i].Sequence < record.Steps[j].Sequence
	})

	return record.Steps, nil
}

// ListRunsByWorkflow returns the runs of a workflow, newest first.
func (r *ExecutionLogRepository) ListRunsByWorkflow(_ context.Context, workflowID string) ([]*models.ExecutionRun, error) {
	return r.listRuns(func(run *models.ExecutionRun) bool {
		return run.WorkflowID == workflowID
	})
}

// ListRunningBefore returns runs still running that started before the cutoff.
func (r *ExecutionLogRepository) ListRunningBefore(_ context.Context, cutoff time.Time) ([]*models.ExecutionRun, error) {
	return r.listRuns(func(run *models.ExecutionRun) bool {
		return !run.IsFinished() && run.StartedAt.Before(cutoff)
	})
}

func (r *ExecutionLogRepository) listRuns(keep func(*models.ExecutionRun) bool) ([]*models.ExecutionRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	jsonFiles, err := fs.Glob(os.DirFS(r.dir()), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list run files: %w", err)
	}

	runs := make([]*models.ExecutionRun, 0)

	for _, file := range jsonFiles {
		record, err := r.load(strings.TrimSuffix(file, ".json"))
		if err != nil {
			return nil, err
		}

		if keep(record.Run) {
			runs = append(runs, record.Run)
		}
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})

	return runs, nil
}
