// Package generatedocument renders a quote document for the run's contact.
package generatedocument

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/protocol"
)

type GenerateDocumentAction struct {
	config    models.GenerateDocumentConfig
	generator protocol.DocumentGenerator
	contacts  protocol.ContactStore
}

func NewGenerateDocumentAction(config models.GenerateDocumentConfig, generator protocol.DocumentGenerator, contacts protocol.ContactStore) *GenerateDocumentAction {
	return &GenerateDocumentAction{
		config:    config,
		generator: generator,
		contacts:  contacts,
	}
}

func (a *GenerateDocumentAction) Execute(ctx context.Context, input models.ActionInput, logger *slog.Logger) (models.ActionResult, error) {
	contact := input.Contact()
	if contact == nil || strings.TrimSpace(contact.Name) == "" || strings.TrimSpace(contact.Email) == "" {
		return models.Skipped("contact name and email are required to generate a document"), nil
	}

	if input.Run.Measurement == nil {
		return models.Skipped("no measurement available for the document"), nil
	}

	document, err := a.generator.Generate(ctx, a.config.TemplateID, contact, *input.Run.Measurement)
	if err != nil {
		return models.Failed(err.Error()), nil
	}

	ref := models.DocumentReference{
		URL:         document.URL,
		StoragePath: document.StoragePath,
		CreatedAt:   time.Now().UTC(),
	}

	if contact.ID != "" {
		err = a.contacts.AppendDocumentReference(ctx, contact.ID, ref)
		if err != nil {
			logger.WarnContext(ctx, "failed to store document reference on contact",
				"contact_id", contact.ID,
				"storage_path", document.StoragePath,
				"error", err,
			)
		} else {
			contact.Documents = append(contact.Documents, ref)
		}
	}

	result := models.Succeeded(map[string]any{
		models.OutputDocumentURL: document.URL,
		"storagePath":            document.StoragePath,
	})

	return result.WithExport(models.OutputDocumentURL, document.URL), nil
}
