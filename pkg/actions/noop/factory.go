// Package noop provides the explicit do-nothing action.
package noop

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dukex/leadflow/pkg/actions"
	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/protocol"
)

type ActionFactory struct{}

func NewActionFactory() *ActionFactory {
	return &ActionFactory{}
}

func (*ActionFactory) ID() models.ActionKind {
	return models.ActionKindNoop
}

func (*ActionFactory) Name() string {
	return "No-op"
}

func (*ActionFactory) Description() string {
	return "Does nothing. The step is recorded as skipped."
}

func (*ActionFactory) Create(config models.ActionConfig) (protocol.Action, error) {
	cfg, err := actions.ConfigAs[models.NoopConfig](config)
	if err != nil {
		return nil, err
	}

	return &NoopAction{reason: cfg.Reason}, nil
}

func (*ActionFactory) Schema() map[string]any {
	return actions.Schema(models.ActionKindNoop, map[string]any{
		"reason": actions.StringProperty("Reason recorded on the skipped step."),
	})
}

type NoopAction struct {
	reason string
}

func (a *NoopAction) Execute(_ context.Context, _ models.ActionInput, _ *slog.Logger) (models.ActionResult, error) {
	if strings.TrimSpace(a.reason) == "" {
		return models.Skipped("no-op node"), nil
	}

	return models.Skipped(a.reason), nil
}
