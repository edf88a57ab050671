// Package sendemail delivers a templated email to the contact or a configured recipient.
package sendemail

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/protocol"
	"github.com/dukex/leadflow/pkg/template"
)

// DefaultRecipient is used when the node does not configure one.
const DefaultRecipient = "{{contact.email}}"

type SendEmailAction struct {
	config models.SendEmailConfig
	sender protocol.EmailSender
}

func NewSendEmailAction(config models.SendEmailConfig, sender protocol.EmailSender) *SendEmailAction {
	if strings.TrimSpace(config.To) == "" {
		config.To = DefaultRecipient
	}

	return &SendEmailAction{config: config, sender: sender}
}

func (a *SendEmailAction) Execute(ctx context.Context, input models.ActionInput, logger *slog.Logger) (models.ActionResult, error) {
	contact := input.Contact()
	extras := input.Extras()

	to := strings.TrimSpace(template.Substitute(a.config.To, contact, extras))
	if to == "" {
		return models.Skipped("no recipient address"), nil
	}

	body := template.Substitute(a.config.Body, contact, extras)
	if strings.TrimSpace(body) == "" {
		return models.Skipped("email body is empty"), nil
	}

	subject := template.Substitute(a.config.Subject, contact, extras)

	err := a.sender.Send(ctx, to, subject, body)
	if err != nil {
		return models.Failed(err.Error()), nil
	}

	logger.DebugContext(ctx, "email sent", "to", to)

	return models.Succeeded(map[string]any{
		"emailSent": true,
		"to":        to,
	}), nil
}
