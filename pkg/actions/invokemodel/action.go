// Package invokemodel calls a language model and exports its reply to later steps.
package invokemodel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/protocol"
	"github.com/dukex/leadflow/pkg/template"
)

// DefaultProvider is used when the node does not name one.
const DefaultProvider = "openai"

type InvokeModelAction struct {
	config      models.InvokeModelConfig
	caller      protocol.ModelCaller
	credentials protocol.CredentialResolver
}

func NewInvokeModelAction(config models.InvokeModelConfig, caller protocol.ModelCaller, credentials protocol.CredentialResolver) *InvokeModelAction {
	config.Provider = strings.ToLower(strings.TrimSpace(config.Provider))
	if config.Provider == "" {
		config.Provider = DefaultProvider
	}

	return &InvokeModelAction{config: config, caller: caller, credentials: credentials}
}

func (a *InvokeModelAction) Execute(ctx context.Context, input models.ActionInput, logger *slog.Logger) (models.ActionResult, error) {
	prompt := strings.TrimSpace(template.Substitute(a.config.Prompt, input.Contact(), input.Extras()))
	if prompt == "" {
		return models.Skipped("prompt is empty"), nil
	}

	apiKey, err := a.credentials.APIKey(ctx, a.config.Provider)
	if err != nil {
		return models.Failed(err.Error()), nil
	}

	if apiKey == "" {
		return models.Skipped(fmt.Sprintf("no API key configured for provider %s", a.config.Provider)), nil
	}

	response, err := a.caller.Complete(ctx, protocol.CompletionRequest{
		Provider: a.config.Provider,
		Model:    a.config.Model,
		APIKey:   apiKey,
		Prompt:   prompt,
	})
	if err != nil {
		return models.Failed(err.Error()), nil
	}

	logger.DebugContext(ctx, "model replied", "provider", a.config.Provider, "model", a.config.Model, "length", len(response))

	result := models.Succeeded(map[string]any{
		"responseLength": len(response),
		"provider":       a.config.Provider,
	})

	return result.WithExport(models.OutputAIResponse, response), nil
}
