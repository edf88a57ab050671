// Package addtag adds a tag to the run's contact with set semantics.
package addtag

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/protocol"
	"github.com/dukex/leadflow/pkg/template"
)

type AddTagAction struct {
	config   models.AddTagConfig
	contacts protocol.ContactStore
}

func NewAddTagAction(config models.AddTagConfig, contacts protocol.ContactStore) *AddTagAction {
	return &AddTagAction{config: config, contacts: contacts}
}

// Execute reloads the contact and asks the store to add the tag when it is
// missing. The store repeats the check atomically with the write.
func (a *AddTagAction) Execute(ctx context.Context, input models.ActionInput, logger *slog.Logger) (models.ActionResult, error) {
	contact := input.Contact()

	tag := strings.TrimSpace(template.Substitute(a.config.Tag, contact, input.Extras()))
	if tag == "" {
		return models.Skipped("no tag configured"), nil
	}

	if contact == nil || contact.ID == "" {
		return models.Skipped("no contact to tag"), nil
	}

	current, err := a.contacts.Contact(ctx, contact.ID)
	if err != nil {
		return models.Failed(err.Error()), nil
	}

	if current == nil {
		return models.Skipped("contact not found"), nil
	}

	if current.HasTag(tag) {
		contact.Tags = current.Tags

		return models.Succeeded(map[string]any{"tag": tag, "added": false}), nil
	}

	tags, added, err := a.contacts.AddContactTag(ctx, contact.ID, tag)
	if err != nil {
		return models.Failed(err.Error()), nil
	}

	contact.Tags = slices.Clone(tags)

	if added {
		logger.DebugContext(ctx, "tag added", "contact_id", contact.ID, "tag", tag)
	}

	return models.Succeeded(map[string]any{"tag": tag, "added": added}), nil
}
