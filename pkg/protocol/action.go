// Package protocol defines the contracts between the executor, the action handlers
// and the outside services they call.
package protocol

import (
	"context"
	"log/slog"

	"github.com/dukex/leadflow/pkg/models"
)

// Action executes one configured node. Handlers report expected conditions as
// skipped or error results; a returned error is treated as an error step with
// the error text as its message.
type Action interface {
	Execute(ctx context.Context, input models.ActionInput, logger *slog.Logger) (models.ActionResult, error)
}

// ActionFactory creates action instances and provides metadata about the action kind.
type ActionFactory interface {
	// Create binds a decoded configuration to a runnable action
	Create(config models.ActionConfig) (Action, error)

	// ID returns the action kind this factory handles
	ID() models.ActionKind

	// Name returns the human-readable name for this action
	Name() string

	// Description returns a description of what this action does
	Description() string

	// Schema returns the JSON schema for the node's data
	Schema() map[string]any
}
