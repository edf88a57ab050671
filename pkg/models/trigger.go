package models

import (
	"fmt"
)

// TriggerKind is the event type configured on a workflow's trigger node.
type TriggerKind string

const (
	TriggerKindMessageInChat TriggerKind = "message_in_chat"
	TriggerKindFormSubmit    TriggerKind = "form_submit"
	TriggerKindEmailReceived TriggerKind = "email_received"
	TriggerKindTagAdded      TriggerKind = "tag_added"
)

// Intent labels accepted on message_in_chat triggers.
const (
	IntentCustomerRequestsQuote = "customer_requests_quote"
	// IntentLegacyQuoteRequest is what older editors saved for the same intent.
	IntentLegacyQuoteRequest = "quote_request"
)

// TriggerConfig is the parsed configuration of a trigger node.
type TriggerConfig struct {
	Kind    TriggerKind `mapstructure:"trigger_type" validate:"required,oneof=message_in_chat form_submit email_received tag_added"`
	Intent  string      `mapstructure:"intent"`
	FormID  string      `mapstructure:"form_id"  validate:"required_if=Kind form_submit"`
	ScopeID string      `mapstructure:"scope_id"` // Falls back to the workflow scope when empty
	Tag     string      `mapstructure:"tag"`      // Optional filter for tag_added triggers
}

// IsQuoteIntent reports whether the configured intent is the quote request intent.
func (t TriggerConfig) IsQuoteIntent() bool {
	return t.Intent == IntentCustomerRequestsQuote || t.Intent == IntentLegacyQuoteRequest
}

// DecodeTriggerConfig parses and validates raw trigger node data.
func DecodeTriggerConfig(data map[string]any) (TriggerConfig, error) {
	var cfg TriggerConfig

	if raw, ok := data[DataKeyTriggerType].(string); !ok || raw == "" {
		return cfg, ErrMissingTriggerType
	}

	err := decode(data, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidTriggerData, err)
	}

	err = validate.Struct(cfg)
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidTriggerData, err)
	}

	return cfg, nil
}

// TriggerType is the firing event recorded on an execution run.
type TriggerType string

const (
	TriggerTypeQuote         TriggerType = "quote"
	TriggerTypeFormSubmitted TriggerType = "form_submitted"
	TriggerTypeEmailReceived TriggerType = "email_received"
	TriggerTypeTagAdded      TriggerType = "tag_added"
)

// AbortsOnError reports whether a failed step ends the run. Email and tag
// runs record the failure and continue with the next node.
func (t TriggerType) AbortsOnError() bool {
	switch t {
	case TriggerTypeQuote, TriggerTypeFormSubmitted:
		return true
	default:
		return false
	}
}
