package sendemail

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

func input(outputs models.StepOutputs) models.ActionInput {
	return models.ActionInput{
		Run: &models.RunContext{
			Contact: &models.Contact{ID: "c1", Name: "Jane Doe", Email: "jane@x.com"},
		},
		Outputs: outputs,
	}
}

func TestActionFactory(t *testing.T) {
	factory := NewActionFactory(&mocks.MockEmailSender{})
	assert.Equal(t, models.ActionKindSendEmail, factory.ID())

	action, err := factory.Create(models.SendEmailConfig{Body: "hi"})
	require.NoError(t, err)
	assert.Equal(t, DefaultRecipient, action.(*SendEmailAction).config.To)
}

func TestSendEmailAction_SubstitutesFromPriorSteps(t *testing.T) {
	sender := &mocks.MockEmailSender{}
	sender.On("Send", mock.Anything, "jane@x.com", "Your quote, Jane", `<a href="https://signed/q.pdf">Download</a>`).Return(nil)

	action := NewSendEmailAction(models.SendEmailConfig{
		Subject: "Your quote, {{contact.first_name}}",
		Body:    `<a href="{{ quote.downloadUrl }}">Download</a>`,
	}, sender)

	outputs := models.StepOutputs{}.With(map[string]string{models.OutputDocumentURL: "https://signed/q.pdf"})

	result, err := action.Execute(t.Context(), input(outputs), slog.Default())
	require.NoError(t, err)
	assert.Equal(t, models.StepStatusSuccess, result.Status)
	assert.Equal(t, true, result.Output["emailSent"])
	sender.AssertExpectations(t)
}

func TestSendEmailAction_ConfiguredRecipient(t *testing.T) {
	sender := &mocks.MockEmailSender{}
	sender.On("Send", mock.Anything, "sales@acme.test", "", "New lead Jane Doe").Return(nil)

	action := NewSendEmailAction(models.SendEmailConfig{To: "sales@acme.test", Body: "New lead {{contact.name}}"}, sender)

	result, err := action.Execute(t.Context(), input(nil), slog.Default())
	require.NoError(t, err)
	assert.Equal(t, models.StepStatusSuccess, result.Status)
}

func TestSendEmailAction_Skips(t *testing.T) {
	sender := &mocks.MockEmailSender{}

	noRecipient := NewSendEmailAction(models.SendEmailConfig{Body: "hello"}, sender)
	in := input(nil)
	in.Run.Contact.Email = ""

	result, err := noRecipient.Execute(t.Context(), in, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, models.StepStatusSkipped, result.Status)
	assert.Equal(t, "no recipient address", result.ErrorMessage)

	emptyBody := NewSendEmailAction(models.SendEmailConfig{Body: "{{ai.response}}"}, sender)

	result, err = emptyBody.Execute(t.Context(), input(nil), slog.Default())
	require.NoError(t, err)
	assert.Equal(t, models.StepStatusSkipped, result.Status)
	assert.Equal(t, "email body is empty", result.ErrorMessage)

	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendEmailAction_SenderError(t *testing.T) {
	sender := &mocks.MockEmailSender{}
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("550 mailbox unavailable"))

	action := NewSendEmailAction(models.SendEmailConfig{Body: "hi"}, sender)

	result, err := action.Execute(t.Context(), input(nil), slog.Default())
	require.NoError(t, err)
	assert.Equal(t, models.StepStatusError, result.Status)
	assert.Equal(t, "550 mailbox unavailable", result.ErrorMessage)
}
