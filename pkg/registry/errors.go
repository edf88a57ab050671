package registry

import (
	"errors"
	"fmt"
)

var (
	ErrNilWorkflow         = errors.New("workflow is nil")
	ErrNoTrigger           = errors.New("workflow has no trigger node")
	ErrMultipleTriggers    = errors.New("workflow has more than one trigger node")
	ErrDuplicateNode       = errors.New("duplicate node id")
	ErrUnknownNodeKind     = errors.New("unknown node kind")
	ErrActionNotRegistered = errors.New("action kind not registered")
	ErrSchemaValidation    = errors.New("node data failed schema validation")
)

// NodeError reports which node of a workflow could not be compiled.
type NodeError struct {
	NodeID string
	Err    error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %s: %v", e.NodeID, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

func newNodeError(nodeID string, err error) error {
	return &NodeError{NodeID: nodeID, Err: err}
}
