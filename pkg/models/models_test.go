package models_test

import (
	"testing"

	"github.com/dukex/leadflow/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeActionConfig(t *testing.T) {
	cfg, err := models.DecodeActionConfig(map[string]any{
		"action_type": "send_email",
		"to":          "{{contact.email}}",
		"subject":     "Your quote",
		"body":        "Hi {{contact.firstName}}",
		"unrelated":   true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SendEmailConfig{To: "{{contact.email}}", Subject: "Your quote", Body: "Hi {{contact.firstName}}"}, cfg)

	cfg, err = models.DecodeActionConfig(map[string]any{"action_type": "noop"})
	require.NoError(t, err)
	assert.Equal(t, models.ActionKindNoop, cfg.Kind())

	_, err = models.DecodeActionConfig(map[string]any{"tag": "vip"})
	require.ErrorIs(t, err, models.ErrMissingActionType)

	_, err = models.DecodeActionConfig(map[string]any{"action_type": "send_fax"})
	require.ErrorIs(t, err, models.ErrUnknownActionKind)

	_, err = models.DecodeActionConfig(map[string]any{"action_type": "add_tag", "tag": map[string]any{"name": "vip"}})
	require.ErrorIs(t, err, models.ErrInvalidActionData)
}

func TestDecodeTriggerConfig(t *testing.T) {
	cfg, err := models.DecodeTriggerConfig(map[string]any{"trigger_type": "tag_added", "tag": "vip"})
	require.NoError(t, err)
	assert.Equal(t, models.TriggerKindTagAdded, cfg.Kind)
	assert.Equal(t, "vip", cfg.Tag)

	_, err = models.DecodeTriggerConfig(map[string]any{"tag": "vip"})
	require.ErrorIs(t, err, models.ErrMissingTriggerType)

	_, err = models.DecodeTriggerConfig(map[string]any{"trigger_type": "form_submit"})
	require.ErrorIs(t, err, models.ErrInvalidTriggerData)

	_, err = models.DecodeTriggerConfig(map[string]any{"trigger_type": "webhook"})
	require.ErrorIs(t, err, models.ErrInvalidTriggerData)
}

func TestTriggerConfig_IsQuoteIntent(t *testing.T) {
	assert.True(t, models.TriggerConfig{Intent: models.IntentCustomerRequestsQuote}.IsQuoteIntent())
	assert.True(t, models.TriggerConfig{Intent: models.IntentLegacyQuoteRequest}.IsQuoteIntent())
	assert.False(t, models.TriggerConfig{Intent: "book_visit"}.IsQuoteIntent())
}

func TestTriggerType_AbortsOnError(t *testing.T) {
	assert.True(t, models.TriggerTypeQuote.AbortsOnError())
	assert.True(t, models.TriggerTypeFormSubmitted.AbortsOnError())
	assert.False(t, models.TriggerTypeEmailReceived.AbortsOnError())
	assert.False(t, models.TriggerTypeTagAdded.AbortsOnError())
}

func TestContact_HasTag(t *testing.T) {
	contact := &models.Contact{Tags: []string{"VIP", "lead"}}

	assert.True(t, contact.HasTag("VIP"))
	assert.True(t, contact.HasTag(" lead "))
	assert.False(t, contact.HasTag("vip"))
	assert.False(t, contact.HasTag("Lead"))
	assert.False(t, contact.HasTag("cold"))
}

func TestStepOutputs_WithDoesNotMutate(t *testing.T) {
	first := models.StepOutputs{}.With(map[string]string{models.OutputDocumentURL: "https://docs/1.pdf"})
	second := first.With(map[string]string{models.OutputAIResponse: "Sure!"})

	assert.Empty(t, first.AIResponse())
	assert.Equal(t, "https://docs/1.pdf", second.DocumentURL())
	assert.Equal(t, map[string]string{
		"quote.downloadUrl": "https://docs/1.pdf",
		"ai.response":       "Sure!",
	}, second.TemplateExtras())
}

func TestActionInput_Extras(t *testing.T) {
	input := models.ActionInput{
		Run: &models.RunContext{
			ConversationID: "conv-1",
			TagAdded:       "vip",
			InboundEmail:   &models.InboundEmail{From: "a@x.com", Subject: "Hi", Body: "Hello"},
			FormFields:     map[string]string{"size": "120"},
		},
		Outputs: models.StepOutputs{models.OutputDocumentURL: "https://docs/1.pdf"},
	}

	assert.Equal(t, map[string]string{
		"conversation.id":   "conv-1",
		"tag.name":          "vip",
		"inbound.from":      "a@x.com",
		"inbound.subject":   "Hi",
		"inbound.body":      "Hello",
		"form.size":         "120",
		"quote.downloadUrl": "https://docs/1.pdf",
	}, input.Extras())

	assert.Nil(t, models.ActionInput{}.Contact())
}

func TestRunContext_CloneSharesNothing(t *testing.T) {
	measurement := 80.0
	original := &models.RunContext{
		Contact:      &models.Contact{ID: "c-1", Tags: []string{"vip"}},
		Measurement:  &measurement,
		InboundEmail: &models.InboundEmail{Subject: "Hi"},
		FormFields:   map[string]string{"size": "80"},
	}

	clone := original.Clone()
	clone.Contact.Tags[0] = "cold"
	clone.Contact.Name = "Changed"
	*clone.Measurement = 1
	clone.InboundEmail.Subject = "Changed"
	clone.FormFields["size"] = "1"

	assert.Equal(t, []string{"vip"}, original.Contact.Tags)
	assert.Empty(t, original.Contact.Name)
	assert.InDelta(t, 80.0, *original.Measurement, 0)
	assert.Equal(t, "Hi", original.InboundEmail.Subject)
	assert.Equal(t, "80", original.FormFields["size"])
}

func TestRunContext_Payload(t *testing.T) {
	measurement := 80.0
	rc := &models.RunContext{
		ConversationID: "conv-1",
		ScopeID:        "widget-1",
		Contact:        &models.Contact{ID: "c-1"},
		Measurement:    &measurement,
	}

	assert.Equal(t, map[string]any{
		"conversation_id": "conv-1",
		"scope_id":        "widget-1",
		"contact_id":      "c-1",
		"measurement":     80.0,
	}, rc.Payload())
}

func TestGraphNode_ActionKind(t *testing.T) {
	assert.Equal(t, models.ActionKindSendEmail, (&models.GraphNode{Kind: models.NodeKindAction, Action: models.SendEmailConfig{}}).ActionKind())
	assert.Equal(t, models.ActionKindCondition, (&models.GraphNode{Kind: models.NodeKindCondition}).ActionKind())
	assert.Empty(t, (&models.GraphNode{Kind: models.NodeKindTrigger}).ActionKind())
}

func TestWorkflow_TriggerNode(t *testing.T) {
	trigger := &models.WorkflowNode{ID: "t", Kind: models.NodeKindTrigger}
	wf := &models.Workflow{Status: models.WorkflowStatusLive, Nodes: []*models.WorkflowNode{{ID: "a", Kind: models.NodeKindAction}, trigger}}

	assert.True(t, wf.IsLive())
	assert.Same(t, trigger, wf.TriggerNode())
	assert.Nil(t, (&models.Workflow{}).TriggerNode())
}
