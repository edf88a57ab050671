package generatedocument

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/dukex/leadflow/pkg/mocks"
	"github.com/dukex/leadflow/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func measurement(v float64) *float64 { return &v }

func janeInput() models.ActionInput {
	return models.ActionInput{
		Run: &models.RunContext{
			ConversationID: "conv-1",
			Contact:        &models.Contact{ID: "contact-1", Name: "Jane Doe", Email: "jane@x.com"},
			Measurement:    measurement(120),
		},
	}
}

func TestActionFactory(t *testing.T) {
	factory := NewActionFactory(&mocks.MockDocumentGenerator{}, &mocks.MockContactStore{})
	assert.Equal(t, models.ActionKindGenerateDocument, factory.ID())
	assert.NotEmpty(t, factory.Name())
	assert.NotEmpty(t, factory.Description())
	assert.Contains(t, factory.Schema()["properties"], "template_id")

	action, err := factory.Create(models.GenerateDocumentConfig{TemplateID: "quote"})
	require.NoError(t, err)
	assert.IsType(t, &GenerateDocumentAction{}, action)

	_, err = factory.Create(models.AddTagConfig{Tag: "x"})
	assert.Error(t, err)
}

func TestGenerateDocumentAction_Success(t *testing.T) {
	generator := &mocks.MockDocumentGenerator{}
	contacts := &mocks.MockContactStore{}
	input := janeInput()

	generator.On("Generate", mock.Anything, "quote", input.Run.Contact, 120.0).
		Return(&models.Document{URL: "https://signed/q.pdf", StoragePath: "quotes/q.pdf"}, nil)
	contacts.On("AppendDocumentReference", mock.Anything, "contact-1", mock.MatchedBy(func(ref models.DocumentReference) bool {
		return ref.URL == "https://signed/q.pdf" && ref.StoragePath == "quotes/q.pdf"
	})).Return(nil)

	action := NewGenerateDocumentAction(models.GenerateDocumentConfig{TemplateID: "quote"}, generator, contacts)

	result, err := action.Execute(t.Context(), input, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, models.StepStatusSuccess, result.Status)
	assert.Equal(t, "https://signed/q.pdf", result.Output[models.OutputDocumentURL])
	assert.Equal(t, "https://signed/q.pdf", result.Exports[models.OutputDocumentURL])
	assert.Len(t, input.Run.Contact.Documents, 1)

	generator.AssertExpectations(t)
	contacts.AssertExpectations(t)
}

func TestGenerateDocumentAction_CollaboratorErrorIsVerbatim(t *testing.T) {
	generator := &mocks.MockDocumentGenerator{}
	generator.On("Generate", mock.Anything, "", mock.Anything, 120.0).Return(nil, errors.New("no template"))

	action := NewGenerateDocumentAction(models.GenerateDocumentConfig{}, generator, &mocks.MockContactStore{})

	result, err := action.Execute(t.Context(), janeInput(), slog.Default())
	require.NoError(t, err)
	assert.Equal(t, models.StepStatusError, result.Status)
	assert.Equal(t, "no template", result.ErrorMessage)
	assert.Empty(t, result.Exports)
}

func TestGenerateDocumentAction_ReferenceFailureStillSucceeds(t *testing.T) {
	generator := &mocks.MockDocumentGenerator{}
	contacts := &mocks.MockContactStore{}

	generator.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&models.Document{URL: "https://signed/q.pdf"}, nil)
	contacts.On("AppendDocumentReference", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	action := NewGenerateDocumentAction(models.GenerateDocumentConfig{}, generator, contacts)

	result, err := action.Execute(t.Context(), janeInput(), slog.Default())
	require.NoError(t, err)
	assert.Equal(t, models.StepStatusSuccess, result.Status)
}

func TestGenerateDocumentAction_Preconditions(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*models.RunContext)
	}{
		{"no contact", func(rc *models.RunContext) { rc.Contact = nil }},
		{"no name", func(rc *models.RunContext) { rc.Contact.Name = "  " }},
		{"no email", func(rc *models.RunContext) { rc.Contact.Email = "" }},
		{"no measurement", func(rc *models.RunContext) { rc.Measurement = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generator := &mocks.MockDocumentGenerator{}
			input := janeInput()
			tt.modify(input.Run)

			action := NewGenerateDocumentAction(models.GenerateDocumentConfig{}, generator, &mocks.MockContactStore{})

			result, err := action.Execute(t.Context(), input, slog.Default())
			require.NoError(t, err)
			assert.Equal(t, models.StepStatusSkipped, result.Status)
			assert.NotEmpty(t, result.ErrorMessage)
			generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}
