// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"fmt"
	"maps"

	"github.com/dukex/leadflow/pkg/models"
	"github.com/google/uuid"
)

// CreateTestNode creates a test WorkflowNode with default values that can be overridden.
// The default is a no-op action.
func CreateTestNode(overrides ...func(*models.WorkflowNode)) *models.WorkflowNode {
	node := &models.WorkflowNode{
		ID:        uuid.New().String(),
		Kind:      models.NodeKindAction,
		Label:     "Test Node",
		Data:      map[string]any{models.DataKeyActionType: string(models.ActionKindNoop)},
		PositionX: 100,
		PositionY: 200,
	}

	for _, override := range overrides {
		override(node)
	}

	return node
}

// WithID sets the node ID.
func WithID(id string) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.ID = id
	}
}

// WithLabel sets the node label.
func WithLabel(label string) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.Label = label
	}
}

// WithTrigger configures the node as a trigger of the given kind.
func WithTrigger(kind models.TriggerKind, data map[string]any) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.Kind = models.NodeKindTrigger
		n.Data = withDiscriminator(models.DataKeyTriggerType, string(kind), data)
	}
}

// WithAction configures the node as an action of the given kind.
func WithAction(kind models.ActionKind, data map[string]any) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.Kind = models.NodeKindAction
		n.Data = withDiscriminator(models.DataKeyActionType, string(kind), data)
	}
}

// WithCondition configures the node as a condition node.
func WithCondition() func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.Kind = models.NodeKindCondition
		n.Data = map[string]any{}
	}
}

// CreateTestWorkflow creates a live workflow whose nodes are chained in the
// order given.
func CreateTestWorkflow(scopeID string, nodes ...*models.WorkflowNode) *models.Workflow {
	return &models.Workflow{
		ID:      uuid.New().String(),
		Name:    "Test Workflow",
		Status:  models.WorkflowStatusLive,
		ScopeID: scopeID,
		Nodes:   nodes,
		Edges:   Chain(nodes...),
	}
}

// Chain returns edges linking each node to the next one.
func Chain(nodes ...*models.WorkflowNode) []*models.Edge {
	edges := make([]*models.Edge, 0, len(nodes))

	for i := 1; i < len(nodes); i++ {
		edges = append(edges, &models.Edge{
			ID:     fmt.Sprintf("e%d", i),
			Source: nodes[i-1].ID,
			Target: nodes[i].ID,
		})
	}

	return edges
}

func withDiscriminator(key, value string, data map[string]any) map[string]any {
	merged := maps.Clone(data)
	if merged == nil {
		merged = map[string]any{}
	}

	merged[key] = value

	return merged
}
