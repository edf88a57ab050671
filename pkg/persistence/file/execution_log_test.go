package file

import (
	"sync"
	"testing"
	"time"

	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRun(id, workflowID string, startedAt time.Time) *models.ExecutionRun {
	return &models.ExecutionRun{
		ID:          id,
		WorkflowID:  workflowID,
		TriggerType: models.TriggerTypeTagAdded,
		Status:      models.RunStatusRunning,
		StartedAt:   startedAt,
	}
}

func newStep(runID string, sequence int) *models.ExecutionStep {
	return &models.ExecutionStep{
		ID:             runID + "-step",
		ExecutionRunID: runID,
		Sequence:       sequence,
		NodeID:         "n1",
		ActionKind:     models.ActionKindAddTag,
		Status:         models.StepStatusSuccess,
		FinishedAt:     time.Now().UTC(),
	}
}

func TestExecutionLogRepository_Lifecycle(t *testing.T) {
	repo := NewExecutionLogRepository(t.TempDir())
	ctx := t.Context()

	require.NoError(t, repo.CreateRun(ctx, newRun("run-1", "wf-1", time.Now().UTC())))
	require.NoError(t, repo.AppendStep(ctx, newStep("run-1", 2)))
	require.NoError(t, repo.AppendStep(ctx, newStep("run-1", 1)))
	require.NoError(t, repo.FinishRun(ctx, "run-1", models.RunStatusError, "boom", time.Now()))

	run, err := repo.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusError, run.Status)
	assert.Equal(t, "boom", run.ErrorMessage)
	assert.True(t, run.IsFinished())

	steps, err := repo.ListSteps(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, 1, steps[0].Sequence)
	assert.Equal(t, 2, steps[1].Sequence)
}

func TestExecutionLogRepository_FinishedRunGuards(t *testing.T) {
	repo := NewExecutionLogRepository(t.TempDir())
	ctx := t.Context()

	require.NoError(t, repo.CreateRun(ctx, newRun("run-1", "wf-1", time.Now().UTC())))
	require.NoError(t, repo.FinishRun(ctx, "run-1", models.RunStatusSuccess, "", time.Now()))

	err := repo.AppendStep(ctx, newStep("run-1", 1))
	require.ErrorIs(t, err, persistence.ErrRunFinished)
	assert.True(t, persistence.IsRunFinished(err))

	err = repo.FinishRun(ctx, "run-1", models.RunStatusError, "late", time.Now())
	require.ErrorIs(t, err, persistence.ErrRunAlreadyFinished)

	run, err := repo.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusSuccess, run.Status)
	assert.Empty(t, run.ErrorMessage)
}

func TestExecutionLogRepository_ConcurrentFinishClosesOnce(t *testing.T) {
	repo := NewExecutionLogRepository(t.TempDir())
	ctx := t.Context()

	require.NoError(t, repo.CreateRun(ctx, newRun("run-1", "wf-1", time.Now().UTC())))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if repo.FinishRun(ctx, "run-1", models.RunStatusSuccess, "", time.Now()) == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	assert.Equal(t, 1, successes)
}

func TestExecutionLogRepository_NotFound(t *testing.T) {
	repo := NewExecutionLogRepository(t.TempDir())

	_, err := repo.GetRun(t.Context(), "missing")
	assert.True(t, persistence.IsRunNotFound(err))

	err = repo.AppendStep(t.Context(), newStep("missing", 1))
	assert.True(t, persistence.IsRunNotFound(err))
}

func TestExecutionLogRepository_Listing(t *testing.T) {
	repo := NewExecutionLogRepository(t.TempDir())
	ctx := t.Context()
	now := time.Now().UTC()

	require.NoError(t, repo.CreateRun(ctx, newRun("old", "wf-1", now.Add(-2*time.Hour))))
	require.NoError(t, repo.CreateRun(ctx, newRun("new", "wf-1", now)))
	require.NoError(t, repo.CreateRun(ctx, newRun("other", "wf-2", now.Add(-3*time.Hour))))
	require.NoError(t, repo.FinishRun(ctx, "other", models.RunStatusSuccess, "", now))

	runs, err := repo.ListRunsByWorkflow(ctx, "wf-1")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "new", runs[0].ID)
	assert.Equal(t, "old", runs[1].ID)

	stale, err := repo.ListRunningBefore(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, "old", stale[0].ID)
}
