package models

// NodeKind represents the role of a node in the workflow graph.
type NodeKind string

const (
	NodeKindTrigger   NodeKind = "trigger"   // The firing event; exactly one per workflow
	NodeKindAction    NodeKind = "action"    // A side-effecting step
	NodeKindCondition NodeKind = "condition" // Traversed, never executed
)

// Node data keys shared by the editor and the registry.
const (
	DataKeyActionType  = "action_type"
	DataKeyTriggerType = "trigger_type"
)

// WorkflowNode represents a node instance as stored with its workflow.
type WorkflowNode struct {
	ID        string         `json:"id"         validate:"required"`
	Kind      NodeKind       `json:"kind"       validate:"required,oneof=trigger action condition"`
	Label     string         `json:"label"`
	Data      map[string]any `json:"data"`
	PositionX int            `json:"position_x"`
	PositionY int            `json:"position_y"`
}

// Edge connects two nodes by id.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
}

// GraphNode is a node whose configuration has been parsed for execution.
// Action is nil for trigger and condition nodes.
type GraphNode struct {
	ID     string
	Kind   NodeKind
	Label  string
	Action ActionConfig
}

// ActionKind returns the kind recorded in the audit trail for the node.
func (n *GraphNode) ActionKind() ActionKind {
	if n.Action != nil {
		return n.Action.Kind()
	}

	if n.Kind == NodeKindCondition {
		return ActionKindCondition
	}

	return ""
}

// WorkflowGraph is the immutable, parsed form of a workflow used by one run.
type WorkflowGraph struct {
	WorkflowID string
	Name       string
	ScopeID    string
	Trigger    TriggerConfig
	Nodes      []*GraphNode
	Edges      []Edge
}
