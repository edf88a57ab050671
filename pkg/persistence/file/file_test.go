package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPersistence(t *testing.T) {
	p := NewPersistence("/tmp/test")
	fp := p.(*Persistence)
	assert.Equal(t, "/tmp/test", fp.root)

	p = NewPersistence("file:///tmp/test")
	fp = p.(*Persistence)
	assert.Equal(t, "/tmp/test", fp.root)
}

func TestPersistence_HealthCheck(t *testing.T) {
	assert.NoError(t, NewPersistence(t.TempDir()).HealthCheck(t.Context()))
	assert.Error(t, NewPersistence(filepath.Join(t.TempDir(), "missing")).HealthCheck(t.Context()))
}

func testWorkflow(id, scopeID string, status models.WorkflowStatus) *models.Workflow {
	return &models.Workflow{
		ID:      id,
		Name:    "Workflow " + id,
		Status:  status,
		ScopeID: scopeID,
		Nodes: []*models.WorkflowNode{
			{ID: "t", Kind: models.NodeKindTrigger, Data: map[string]any{"trigger_type": "tag_added"}},
		},
		Edges: []*models.Edge{},
	}
}

func TestWorkflowRepository_SaveAndGet(t *testing.T) {
	root := t.TempDir()
	repo := NewWorkflowRepository(root)

	workflow := testWorkflow("wf-1", "scope-1", models.WorkflowStatusLive)
	require.NoError(t, repo.Save(t.Context(), workflow))

	_, err := os.Stat(filepath.Join(root, "workflows", "wf-1.json"))
	require.NoError(t, err)

	loaded, err := repo.GetByID(t.Context(), "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "Workflow wf-1", loaded.Name)
	assert.Equal(t, "scope-1", loaded.ScopeID)
	assert.False(t, loaded.CreatedAt.IsZero())
	require.Len(t, loaded.Nodes, 1)
	assert.Equal(t, "tag_added", loaded.Nodes[0].Data["trigger_type"])
}

func TestWorkflowRepository_GetByID_NotFound(t *testing.T) {
	repo := NewWorkflowRepository(t.TempDir())

	_, err := repo.GetByID(t.Context(), "missing")
	require.Error(t, err)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflowRepository_RejectsPathTraversal(t *testing.T) {
	repo := NewWorkflowRepository(t.TempDir())

	_, err := repo.GetByID(t.Context(), "../etc/passwd")
	assert.ErrorIs(t, err, persistence.ErrInvalidID)

	err = repo.Save(t.Context(), testWorkflow("a/b", "s", models.WorkflowStatusDraft))
	assert.ErrorIs(t, err, persistence.ErrInvalidID)
}

func TestWorkflowRepository_Delete(t *testing.T) {
	repo := NewWorkflowRepository(t.TempDir())
	require.NoError(t, repo.Save(t.Context(), testWorkflow("wf-1", "s", models.WorkflowStatusDraft)))

	require.NoError(t, repo.Delete(t.Context(), "wf-1"))
	require.NoError(t, repo.Delete(t.Context(), "wf-1"))

	all, err := repo.GetAll(t.Context())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestWorkflowRepository_ListLive(t *testing.T) {
	repo := NewWorkflowRepository(t.TempDir())
	ctx := t.Context()

	first := testWorkflow("wf-a", "scope-1", models.WorkflowStatusLive)
	require.NoError(t, repo.Save(ctx, first))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, repo.Save(ctx, testWorkflow("wf-b", "scope-1", models.WorkflowStatusDraft)))
	require.NoError(t, repo.Save(ctx, testWorkflow("wf-c", "scope-2", models.WorkflowStatusLive)))
	require.NoError(t, repo.Save(ctx, testWorkflow("wf-d", "scope-1", models.WorkflowStatusPaused)))
	require.NoError(t, repo.Save(ctx, testWorkflow("wf-e", "scope-1", models.WorkflowStatusLive)))

	live, err := repo.ListLive(ctx, "scope-1")
	require.NoError(t, err)
	require.Len(t, live, 2)
	assert.Equal(t, "wf-a", live[0].ID)
	assert.Equal(t, "wf-e", live[1].ID)
}

func TestWorkflowRepository_GetAll_EmptyRoot(t *testing.T) {
	repo := NewWorkflowRepository(t.TempDir())

	all, err := repo.GetAll(t.Context())
	require.NoError(t, err)
	assert.Empty(t, all)
}
