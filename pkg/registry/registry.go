// Package registry keeps the action factories known to the engine and compiles
// stored workflows into graphs that can be executed.
package registry

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/protocol"
	"github.com/xeipuuv/gojsonschema"
)

type Registry struct {
	logger          *slog.Logger
	actionFactories map[models.ActionKind]protocol.ActionFactory
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		logger:          log,
		actionFactories: make(map[models.ActionKind]protocol.ActionFactory),
	}
}

func (r *Registry) RegisterAction(actionFactory protocol.ActionFactory) {
	r.actionFactories[actionFactory.ID()] = actionFactory
}

// ActionFactories returns the registered factories ordered by kind.
func (r *Registry) ActionFactories() []protocol.ActionFactory {
	factories := make([]protocol.ActionFactory, 0, len(r.actionFactories))
	for _, factory := range r.actionFactories {
		factories = append(factories, factory)
	}

	slices.SortFunc(factories, func(a, b protocol.ActionFactory) int {
		return strings.Compare(string(a.ID()), string(b.ID()))
	})

	return factories
}

// HealthCheck reports whether any action kind is available to workflows.
func (r *Registry) HealthCheck() (string, bool) {
	if len(r.actionFactories) == 0 {
		return "No actions registered", false
	}

	return fmt.Sprintf("%d actions registered", len(r.actionFactories)), true
}

func (r *Registry) CreateAction(config models.ActionConfig) (protocol.Action, error) {
	factory, ok := r.actionFactories[config.Kind()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrActionNotRegistered, config.Kind())
	}

	return factory.Create(config)
}

// Compile parses every node of the workflow once. A workflow that references
// an unknown or unregistered action kind, or whose node data does not satisfy
// the action's schema, is rejected as a whole.
func (r *Registry) Compile(workflow *models.Workflow) (*models.WorkflowGraph, error) {
	if workflow == nil {
		return nil, ErrNilWorkflow
	}

	graph := &models.WorkflowGraph{
		WorkflowID: workflow.ID,
		Name:       workflow.Name,
		ScopeID:    workflow.ScopeID,
		Nodes:      make([]*models.GraphNode, 0, len(workflow.Nodes)),
		Edges:      make([]models.Edge, 0, len(workflow.Edges)),
	}

	seen := make(map[string]bool, len(workflow.Nodes))
	triggers := 0

	for _, node := range workflow.Nodes {
		if node == nil {
			continue
		}

		if seen[node.ID] {
			return nil, newNodeError(node.ID, ErrDuplicateNode)
		}

		seen[node.ID] = true

		compiled := &models.GraphNode{
			ID:    node.ID,
			Kind:  node.Kind,
			Label: node.Label,
		}

		switch node.Kind {
		case models.NodeKindTrigger:
			triggers++
			if triggers > 1 {
				return nil, newNodeError(node.ID, ErrMultipleTriggers)
			}

			trigger, err := models.DecodeTriggerConfig(node.Data)
			if err != nil {
				return nil, newNodeError(node.ID, err)
			}

			if trigger.ScopeID == "" {
				trigger.ScopeID = workflow.ScopeID
			}

			graph.Trigger = trigger
		case models.NodeKindAction:
			action, err := r.compileAction(node.Data)
			if err != nil {
				return nil, newNodeError(node.ID, err)
			}

			compiled.Action = action
		case models.NodeKindCondition:
		default:
			return nil, newNodeError(node.ID, fmt.Errorf("%w: %q", ErrUnknownNodeKind, node.Kind))
		}

		graph.Nodes = append(graph.Nodes, compiled)
	}

	if triggers == 0 {
		return nil, ErrNoTrigger
	}

	for _, edge := range workflow.Edges {
		if edge != nil {
			graph.Edges = append(graph.Edges, *edge)
		}
	}

	return graph, nil
}

func (r *Registry) compileAction(data map[string]any) (models.ActionConfig, error) {
	kind, err := models.ActionKindOf(data)
	if err != nil {
		return nil, err
	}

	factory, ok := r.actionFactories[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrActionNotRegistered, kind)
	}

	err = validateJSONSchema(data, factory.Schema())
	if err != nil {
		return nil, err
	}

	return models.DecodeActionConfig(data)
}

// validateJSONSchema validates node data against an action's JSON schema.
func validateJSONSchema(data map[string]any, schema map[string]any) error {
	if schema == nil {
		return nil
	}

	schemaLoader := gojsonschema.NewGoLoader(schema)
	dataLoader := gojsonschema.NewGoLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSchemaValidation, err)
	}

	if !result.Valid() {
		var errors []string
		for _, e := range result.Errors() {
			errors = append(errors, e.String())
		}

		return fmt.Errorf("%w: %s", ErrSchemaValidation, strings.Join(errors, "; "))
	}

	return nil
}
