package sendchatmessage

import (
	"github.com/dukex/leadflow/pkg/actions"
	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/protocol"
)

// ActionFactory creates SendChatMessageAction instances.
type ActionFactory struct {
	conversations protocol.ConversationStore
}

// NewActionFactory creates a new instance of ActionFactory.
func NewActionFactory(conversations protocol.ConversationStore) *ActionFactory {
	return &ActionFactory{conversations: conversations}
}

func (*ActionFactory) ID() models.ActionKind {
	return models.ActionKindSendChatMessage
}

func (*ActionFactory) Name() string {
	return "Send chat message"
}

func (*ActionFactory) Description() string {
	return "Posts an assistant message into the contact's chat conversation. [[label]] spans link to the latest generated document."
}

func (f *ActionFactory) Create(config models.ActionConfig) (protocol.Action, error) {
	cfg, err := actions.ConfigAs[models.SendChatMessageConfig](config)
	if err != nil {
		return nil, err
	}

	return NewSendChatMessageAction(cfg, f.conversations), nil
}

func (*ActionFactory) Schema() map[string]any {
	return actions.Schema(models.ActionKindSendChatMessage, map[string]any{
		"message": actions.StringProperty("Templated message text."),
	})
}
