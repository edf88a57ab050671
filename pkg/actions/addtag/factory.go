package addtag

import (
	"github.com/dukex/leadflow/pkg/actions"
	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/protocol"
)

// ActionFactory creates AddTagAction instances.
type ActionFactory struct {
	contacts protocol.ContactStore
}

// NewActionFactory creates a new instance of ActionFactory.
func NewActionFactory(contacts protocol.ContactStore) *ActionFactory {
	return &ActionFactory{contacts: contacts}
}

func (*ActionFactory) ID() models.ActionKind {
	return models.ActionKindAddTag
}

func (*ActionFactory) Name() string {
	return "Add tag"
}

func (*ActionFactory) Description() string {
	return "Adds a tag to the contact. Adding a tag the contact already has is a no-op."
}

func (f *ActionFactory) Create(config models.ActionConfig) (protocol.Action, error) {
	cfg, err := actions.ConfigAs[models.AddTagConfig](config)
	if err != nil {
		return nil, err
	}

	return NewAddTagAction(cfg, f.contacts), nil
}

func (*ActionFactory) Schema() map[string]any {
	return actions.Schema(models.ActionKindAddTag, map[string]any{
		"tag": actions.StringProperty("Tag name. May be templated."),
	})
}
