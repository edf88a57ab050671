// Package sendchatmessage injects an assistant-authored message into a chat conversation.
package sendchatmessage

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/protocol"
	"github.com/dukex/leadflow/pkg/template"
)

type SendChatMessageAction struct {
	config        models.SendChatMessageConfig
	conversations protocol.ConversationStore
}

func NewSendChatMessageAction(config models.SendChatMessageConfig, conversations protocol.ConversationStore) *SendChatMessageAction {
	return &SendChatMessageAction{config: config, conversations: conversations}
}

func (a *SendChatMessageAction) Execute(ctx context.Context, input models.ActionInput, logger *slog.Logger) (models.ActionResult, error) {
	message := template.Substitute(a.config.Message, input.Contact(), input.Extras())
	if strings.TrimSpace(message) == "" {
		return models.Skipped("chat message is empty"), nil
	}

	conversationID, err := a.resolveConversation(ctx, input)
	if err != nil {
		return models.Failed(err.Error()), nil
	}

	if conversationID == "" {
		return models.Skipped("no chat conversation found for contact"), nil
	}

	content := template.Linkify(message, input.Outputs.DocumentURL())

	err = a.conversations.InsertAssistantMessage(ctx, conversationID, content)
	if err != nil {
		return models.Failed(err.Error()), nil
	}

	logger.DebugContext(ctx, "chat message sent", "conversation_id", conversationID)

	return models.Succeeded(map[string]any{
		"sent":           true,
		"conversationId": conversationID,
	}), nil
}

// resolveConversation uses the originating conversation, or the contact's
// latest one for runs not started from chat.
func (a *SendChatMessageAction) resolveConversation(ctx context.Context, input models.ActionInput) (string, error) {
	if input.Run != nil && input.Run.ConversationID != "" {
		return input.Run.ConversationID, nil
	}

	contact := input.Contact()
	if contact == nil || contact.ID == "" {
		return "", nil
	}

	return a.conversations.ConversationForContact(ctx, contact.ID)
}
