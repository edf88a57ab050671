package invokemodel

import (
	"github.com/dukex/leadflow/pkg/actions"
	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/protocol"
)

// ActionFactory creates InvokeModelAction instances.
type ActionFactory struct {
	caller      protocol.ModelCaller
	credentials protocol.CredentialResolver
}

// NewActionFactory creates a new instance of ActionFactory.
func NewActionFactory(caller protocol.ModelCaller, credentials protocol.CredentialResolver) *ActionFactory {
	return &ActionFactory{caller: caller, credentials: credentials}
}

func (*ActionFactory) ID() models.ActionKind {
	return models.ActionKindInvokeModel
}

func (*ActionFactory) Name() string {
	return "Invoke language model"
}

func (*ActionFactory) Description() string {
	return "Sends a templated prompt to a language model. The reply is available to later steps as {{ai.response}}."
}

func (f *ActionFactory) Create(config models.ActionConfig) (protocol.Action, error) {
	cfg, err := actions.ConfigAs[models.InvokeModelConfig](config)
	if err != nil {
		return nil, err
	}

	return NewInvokeModelAction(cfg, f.caller, f.credentials), nil
}

func (*ActionFactory) Schema() map[string]any {
	return actions.Schema(models.ActionKindInvokeModel, map[string]any{
		"provider": actions.StringProperty("Model provider. Defaults to openai."),
		"model":    actions.StringProperty("Model name. The caller default is used when empty."),
		"prompt":   actions.StringProperty("Templated prompt sent as a single user turn."),
	})
}
