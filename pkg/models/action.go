package models

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// ActionKind identifies the handler an action node is dispatched to.
type ActionKind string

const (
	ActionKindGenerateDocument ActionKind = "generate_document"
	ActionKindSendEmail        ActionKind = "send_email"
	ActionKindSendChatMessage  ActionKind = "send_chat_message"
	ActionKindAddTag           ActionKind = "add_tag"
	ActionKindInvokeModel      ActionKind = "invoke_model"
	ActionKindNoop             ActionKind = "noop"

	// ActionKindCondition is only recorded in the audit trail; condition nodes are never dispatched.
	ActionKindCondition ActionKind = "condition"
)

var (
	ErrMissingActionType  = errors.New("missing required field 'action_type'")
	ErrUnknownActionKind  = errors.New("unknown action kind")
	ErrInvalidActionData  = errors.New("invalid action configuration")
	ErrMissingTriggerType = errors.New("missing required field 'trigger_type'")
	ErrInvalidTriggerData = errors.New("invalid trigger configuration")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ActionConfig is the parsed configuration of one action node. Each kind has
// its own variant holding only the fields that kind needs.
type ActionConfig interface {
	Kind() ActionKind
}

// GenerateDocumentConfig renders a quote document for the contact.
type GenerateDocumentConfig struct {
	TemplateID string `mapstructure:"template_id"`
}

func (GenerateDocumentConfig) Kind() ActionKind { return ActionKindGenerateDocument }

// SendEmailConfig sends a templated email. To defaults to {{contact.email}}.
type SendEmailConfig struct {
	To      string `mapstructure:"to"`
	Subject string `mapstructure:"subject"`
	Body    string `mapstructure:"body"`
}

func (SendEmailConfig) Kind() ActionKind { return ActionKindSendEmail }

// SendChatMessageConfig posts an assistant message into the contact's conversation.
type SendChatMessageConfig struct {
	Message string `mapstructure:"message"`
}

func (SendChatMessageConfig) Kind() ActionKind { return ActionKindSendChatMessage }

// AddTagConfig adds a tag to the contact.
type AddTagConfig struct {
	Tag string `mapstructure:"tag"`
}

func (AddTagConfig) Kind() ActionKind { return ActionKindAddTag }

// InvokeModelConfig calls a language model with a single user turn.
type InvokeModelConfig struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	Prompt   string `mapstructure:"prompt"`
}

func (InvokeModelConfig) Kind() ActionKind { return ActionKindInvokeModel }

// NoopConfig is an explicit placeholder node.
type NoopConfig struct {
	Reason string `mapstructure:"reason"`
}

func (NoopConfig) Kind() ActionKind { return ActionKindNoop }

// ActionKindOf reads the action discriminator from raw node data.
func ActionKindOf(data map[string]any) (ActionKind, error) {
	raw, ok := data[DataKeyActionType].(string)
	if !ok || raw == "" {
		return "", ErrMissingActionType
	}

	return ActionKind(raw), nil
}

// DecodeActionConfig parses raw node data into the variant for its action_type.
func DecodeActionConfig(data map[string]any) (ActionConfig, error) {
	kind, err := ActionKindOf(data)
	if err != nil {
		return nil, err
	}

	var target ActionConfig

	switch kind {
	case ActionKindGenerateDocument:
		target = &GenerateDocumentConfig{}
	case ActionKindSendEmail:
		target = &SendEmailConfig{}
	case ActionKindSendChatMessage:
		target = &SendChatMessageConfig{}
	case ActionKindAddTag:
		target = &AddTagConfig{}
	case ActionKindInvokeModel:
		target = &InvokeModelConfig{}
	case ActionKindNoop:
		target = &NoopConfig{}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownActionKind, kind)
	}

	err = decode(data, target)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %w", ErrInvalidActionData, kind, err)
	}

	// Handlers receive value types so a config can never be mutated mid-run.
	switch cfg := target.(type) {
	case *GenerateDocumentConfig:
		return *cfg, nil
	case *SendEmailConfig:
		return *cfg, nil
	case *SendChatMessageConfig:
		return *cfg, nil
	case *AddTagConfig:
		return *cfg, nil
	case *InvokeModelConfig:
		return *cfg, nil
	default:
		return *target.(*NoopConfig), nil
	}
}

func decode(data map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}

	return decoder.Decode(data)
}
