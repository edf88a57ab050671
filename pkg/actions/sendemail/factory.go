package sendemail

import (
	"github.com/dukex/leadflow/pkg/actions"
	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/protocol"
)

// ActionFactory creates SendEmailAction instances.
type ActionFactory struct {
	sender protocol.EmailSender
}

// NewActionFactory creates a new instance of ActionFactory.
func NewActionFactory(sender protocol.EmailSender) *ActionFactory {
	return &ActionFactory{sender: sender}
}

func (*ActionFactory) ID() models.ActionKind {
	return models.ActionKindSendEmail
}

func (*ActionFactory) Name() string {
	return "Send email"
}

func (*ActionFactory) Description() string {
	return "Sends a templated HTML email. Subject and body may use {{contact.*}}, {{quote.downloadUrl}} and {{ai.response}}."
}

func (f *ActionFactory) Create(config models.ActionConfig) (protocol.Action, error) {
	cfg, err := actions.ConfigAs[models.SendEmailConfig](config)
	if err != nil {
		return nil, err
	}

	return NewSendEmailAction(cfg, f.sender), nil
}

func (*ActionFactory) Schema() map[string]any {
	return actions.Schema(models.ActionKindSendEmail, map[string]any{
		"to":      actions.StringProperty("Recipient expression. Defaults to {{contact.email}}."),
		"subject": actions.StringProperty("Templated subject line."),
		"body":    actions.StringProperty("Templated HTML body."),
	})
}
