// Package actions holds what the action handlers share.
package actions

import (
	"errors"
	"fmt"

	"github.com/dukex/leadflow/pkg/models"
)

// ErrConfigMismatch is returned by a factory handed another kind's configuration.
var ErrConfigMismatch = errors.New("configuration does not match action kind")

// ConfigAs narrows a decoded configuration to the variant a factory expects.
func ConfigAs[T models.ActionConfig](config models.ActionConfig) (T, error) {
	typed, ok := config.(T)
	if !ok {
		var zero T

		return zero, fmt.Errorf("%w: got %T, want %T", ErrConfigMismatch, config, zero)
	}

	return typed, nil
}

// StringProperty is the JSON schema fragment for an optional templated string field.
func StringProperty(description string) map[string]any {
	return map[string]any{
		"type":        "string",
		"description": description,
	}
}

// Schema builds the JSON schema for an action node's data. The action_type
// discriminator is always allowed; fields are never required because a missing
// value is reported as a skipped step.
func Schema(kind models.ActionKind, properties map[string]any) map[string]any {
	all := map[string]any{
		models.DataKeyActionType: map[string]any{
			"type":  "string",
			"const": string(kind),
		},
	}

	for name, property := range properties {
		all[name] = property
	}

	return map[string]any{
		"type":       "object",
		"properties": all,
		"required":   []string{models.DataKeyActionType},
	}
}
