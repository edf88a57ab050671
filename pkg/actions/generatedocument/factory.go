package generatedocument

import (
	"github.com/dukex/leadflow/pkg/actions"
	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/protocol"
)

// ActionFactory creates GenerateDocumentAction instances bound to their collaborators.
type ActionFactory struct {
	generator protocol.DocumentGenerator
	contacts  protocol.ContactStore
}

// NewActionFactory creates a new instance of ActionFactory.
func NewActionFactory(generator protocol.DocumentGenerator, contacts protocol.ContactStore) *ActionFactory {
	return &ActionFactory{generator: generator, contacts: contacts}
}

// ID returns the action kind handled by the factory.
func (*ActionFactory) ID() models.ActionKind {
	return models.ActionKindGenerateDocument
}

// Name returns the name of the action factory.
func (*ActionFactory) Name() string {
	return "Generate document"
}

// Description returns a brief description of the action.
func (*ActionFactory) Description() string {
	return "Renders a quote document for the contact from the measurement captured by the trigger and stores it on the contact."
}

// Create creates a new GenerateDocumentAction with the provided configuration.
func (f *ActionFactory) Create(config models.ActionConfig) (protocol.Action, error) {
	cfg, err := actions.ConfigAs[models.GenerateDocumentConfig](config)
	if err != nil {
		return nil, err
	}

	return NewGenerateDocumentAction(cfg, f.generator, f.contacts), nil
}

// Schema returns the JSON schema for the action configuration.
func (*ActionFactory) Schema() map[string]any {
	return actions.Schema(models.ActionKindGenerateDocument, map[string]any{
		"template_id": actions.StringProperty("Document template to render. The generator default is used when empty."),
	})
}
