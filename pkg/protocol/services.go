package protocol

import (
	"context"

	"github.com/dukex/leadflow/pkg/models"
)

// ContactStore reads and updates CRM contacts.
type ContactStore interface {
	// ContactForConversation returns the contact linked to a chat conversation,
	// or nil with no error when the conversation has none.
	ContactForConversation(ctx context.Context, conversationID string) (*models.Contact, error)

	// Contact loads a contact by ID, or nil with no error when it does not exist.
	Contact(ctx context.Context, contactID string) (*models.Contact, error)

	// AddContactTag appends the tag unless the contact already carries it and
	// returns the resulting tag set. The check and the write are atomic.
	AddContactTag(ctx context.Context, contactID, tag string) (tags []string, added bool, err error)

	AppendDocumentReference(ctx context.Context, contactID string, ref models.DocumentReference) error
}

// ConversationStore resolves and writes chat conversations.
type ConversationStore interface {
	// ConversationForContact returns the most recent conversation of a contact,
	// or "" when there is none.
	ConversationForContact(ctx context.Context, contactID string) (string, error)

	InsertAssistantMessage(ctx context.Context, conversationID, content string) error
}

// DocumentGenerator renders a quote document and returns where it is stored.
type DocumentGenerator interface {
	Generate(ctx context.Context, templateID string, contact *models.Contact, measurement float64) (*models.Document, error)
}

// EmailSender delivers one HTML email.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// CompletionRequest is one prompt sent to a language model.
type CompletionRequest struct {
	Provider string
	Model    string
	APIKey   string
	Prompt   string
}

// ModelCaller sends a prompt to a language model and returns its text reply.
type ModelCaller interface {
	Complete(ctx context.Context, request CompletionRequest) (string, error)
}

// CredentialResolver looks up the API key for a model provider. It returns ""
// with no error when no credential is configured.
type CredentialResolver interface {
	APIKey(ctx context.Context, provider string) (string, error)
}
