package registry_test

import (
	"log/slog"
	"testing"

	"github.com/dukex/leadflow/pkg/actions/addtag"
	"github.com/dukex/leadflow/pkg/actions/noop"
	"github.com/dukex/leadflow/pkg/actions/sendemail"
	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry() *registry.Registry {
	r := registry.NewRegistry(slog.Default())
	r.RegisterAction(sendemail.NewActionFactory(nil))
	r.RegisterAction(addtag.NewActionFactory(nil))
	r.RegisterAction(noop.NewActionFactory())

	return r
}

func tagWorkflow(nodes ...*models.WorkflowNode) *models.Workflow {
	all := append([]*models.WorkflowNode{{
		ID:   "trigger",
		Kind: models.NodeKindTrigger,
		Data: map[string]any{"trigger_type": "tag_added", "tag": "vip"},
	}}, nodes...)

	return &models.Workflow{
		ID:      "wf-1",
		Name:    "VIP follow up",
		Status:  models.WorkflowStatusLive,
		ScopeID: "acct-1",
		Nodes:   all,
		Edges: []*models.Edge{
			{ID: "e1", Source: "trigger", Target: "email"},
			{ID: "e2", Source: "email", Target: "check"},
		},
	}
}

func TestRegistry_Compile(t *testing.T) {
	workflow := tagWorkflow(
		&models.WorkflowNode{
			ID:    "email",
			Kind:  models.NodeKindAction,
			Label: "Welcome email",
			Data:  map[string]any{"action_type": "send_email", "subject": "Hi {{contact.first_name}}", "body": "Welcome"},
		},
		&models.WorkflowNode{ID: "check", Kind: models.NodeKindCondition, Data: map[string]any{"expression": "anything"}},
	)

	graph, err := newRegistry().Compile(workflow)
	require.NoError(t, err)

	assert.Equal(t, "wf-1", graph.WorkflowID)
	assert.Equal(t, models.TriggerKindTagAdded, graph.Trigger.Kind)
	assert.Equal(t, "vip", graph.Trigger.Tag)
	assert.Equal(t, "acct-1", graph.Trigger.ScopeID, "trigger scope falls back to the workflow scope")

	require.Len(t, graph.Nodes, 3)
	assert.Nil(t, graph.Nodes[0].Action)
	assert.Equal(t, models.SendEmailConfig{Subject: "Hi {{contact.first_name}}", Body: "Welcome"}, graph.Nodes[1].Action)
	assert.Equal(t, "Welcome email", graph.Nodes[1].Label)
	assert.Nil(t, graph.Nodes[2].Action)
	assert.Equal(t, models.ActionKindCondition, graph.Nodes[2].ActionKind())

	require.Len(t, graph.Edges, 2)
	assert.Equal(t, "email", graph.Edges[0].Target)
}

func TestRegistry_CompileRejects(t *testing.T) {
	tests := []struct {
		name     string
		workflow *models.Workflow
		wantErr  error
	}{
		{
			name:     "nil workflow",
			workflow: nil,
			wantErr:  registry.ErrNilWorkflow,
		},
		{
			name:     "no trigger",
			workflow: &models.Workflow{Nodes: []*models.WorkflowNode{{ID: "a", Kind: models.NodeKindAction, Data: map[string]any{"action_type": "noop"}}}},
			wantErr:  registry.ErrNoTrigger,
		},
		{
			name: "two triggers",
			workflow: tagWorkflow(&models.WorkflowNode{
				ID:   "second",
				Kind: models.NodeKindTrigger,
				Data: map[string]any{"trigger_type": "tag_added"},
			}),
			wantErr: registry.ErrMultipleTriggers,
		},
		{
			name:     "duplicate id",
			workflow: tagWorkflow(&models.WorkflowNode{ID: "trigger", Kind: models.NodeKindCondition}),
			wantErr:  registry.ErrDuplicateNode,
		},
		{
			name:     "unknown node kind",
			workflow: tagWorkflow(&models.WorkflowNode{ID: "x", Kind: "delay"}),
			wantErr:  registry.ErrUnknownNodeKind,
		},
		{
			name:     "missing action type",
			workflow: tagWorkflow(&models.WorkflowNode{ID: "x", Kind: models.NodeKindAction, Data: map[string]any{"tag": "vip"}}),
			wantErr:  models.ErrMissingActionType,
		},
		{
			name:     "unregistered action kind",
			workflow: tagWorkflow(&models.WorkflowNode{ID: "x", Kind: models.NodeKindAction, Data: map[string]any{"action_type": "invoke_model"}}),
			wantErr:  registry.ErrActionNotRegistered,
		},
		{
			name:     "schema violation",
			workflow: tagWorkflow(&models.WorkflowNode{ID: "x", Kind: models.NodeKindAction, Data: map[string]any{"action_type": "add_tag", "tag": 42}}),
			wantErr:  registry.ErrSchemaValidation,
		},
		{
			name: "invalid trigger",
			workflow: &models.Workflow{Nodes: []*models.WorkflowNode{{
				ID:   "trigger",
				Kind: models.NodeKindTrigger,
				Data: map[string]any{"trigger_type": "form_submit"},
			}}},
			wantErr: models.ErrInvalidTriggerData,
		},
	}

	r := newRegistry()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			graph, err := r.Compile(tt.workflow)
			require.Error(t, err)
			assert.Nil(t, graph)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegistry_CompileReportsNode(t *testing.T) {
	workflow := tagWorkflow(&models.WorkflowNode{ID: "bad", Kind: models.NodeKindAction, Data: map[string]any{"action_type": "teleport"}})

	_, err := newRegistry().Compile(workflow)

	var nodeErr *registry.NodeError

	require.ErrorAs(t, err, &nodeErr)
	assert.Equal(t, "bad", nodeErr.NodeID)
}

func TestRegistry_CreateAction(t *testing.T) {
	r := newRegistry()

	action, err := r.CreateAction(models.NoopConfig{Reason: "placeholder"})
	require.NoError(t, err)
	assert.NotNil(t, action)

	_, err = r.CreateAction(models.InvokeModelConfig{Prompt: "hi"})
	assert.ErrorIs(t, err, registry.ErrActionNotRegistered)
}

func TestRegistry_ActionFactoriesSorted(t *testing.T) {
	var kinds []models.ActionKind
	for _, factory := range newRegistry().ActionFactories() {
		kinds = append(kinds, factory.ID())
	}

	assert.Equal(t, []models.ActionKind{models.ActionKindAddTag, models.ActionKindNoop, models.ActionKindSendEmail}, kinds)
}

func TestRegistry_HealthCheck(t *testing.T) {
	_, ok := registry.NewRegistry(slog.Default()).HealthCheck()
	assert.False(t, ok)

	message, ok := newRegistry().HealthCheck()
	assert.True(t, ok)
	assert.Equal(t, "3 actions registered", message)
}
