package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukex/leadflow/pkg/eventbus"
	"github.com/dukex/leadflow/pkg/events"
	"github.com/dukex/leadflow/pkg/workflow"
)

var ErrUnexpectedEvent = errors.New("unexpected event payload")

// RegisterTriggerHandlers dispatches inbound trigger events to the service.
// Events that fail validation are acknowledged and dropped; any other failure
// is returned so the bus redelivers the event.
func RegisterTriggerHandlers(subscriber eventbus.EventSubscriber, service *workflow.Service, logger *slog.Logger) error {
	handlers := map[events.EventType]eventbus.EventHandler{
		events.QuoteRequestedEvent: func(ctx context.Context, event any) error {
			quote, ok := event.(*events.QuoteRequested)
			if !ok {
				return fmt.Errorf("%w: %T", ErrUnexpectedEvent, event)
			}

			result, err := service.HandleQuoteIntent(ctx, *quote)

			return settle(ctx, logger, quote.GetType(), quote.ID, runCount(result), err)
		},
		events.FormSubmittedEvent: func(ctx context.Context, event any) error {
			form, ok := event.(*events.FormSubmitted)
			if !ok {
				return fmt.Errorf("%w: %T", ErrUnexpectedEvent, event)
			}

			result, err := service.HandleFormSubmitted(ctx, *form)

			return settle(ctx, logger, form.GetType(), form.ID, runCount(result), err)
		},
		events.EmailReceivedEvent: func(ctx context.Context, event any) error {
			email, ok := event.(*events.EmailReceived)
			if !ok {
				return fmt.Errorf("%w: %T", ErrUnexpectedEvent, event)
			}

			results, err := service.HandleEmailReceived(ctx, *email)

			return settle(ctx, logger, email.GetType(), email.ID, len(results), err)
		},
		events.TagAddedEvent: func(ctx context.Context, event any) error {
			tag, ok := event.(*events.TagAdded)
			if !ok {
				return fmt.Errorf("%w: %T", ErrUnexpectedEvent, event)
			}

			results, err := service.HandleTagAdded(ctx, *tag)

			return settle(ctx, logger, tag.GetType(), tag.ID, len(results), err)
		},
	}

	for eventType, handler := range handlers {
		err := subscriber.Handle(eventType, handler)
		if err != nil {
			return fmt.Errorf("failed to register handler for %s: %w", eventType, err)
		}
	}

	return nil
}

func settle(ctx context.Context, logger *slog.Logger, eventType events.EventType, eventID string, runs int, err error) error {
	switch {
	case events.IsValidationError(err):
		logger.WarnContext(ctx, "Dropping invalid trigger event", "event_type", eventType, "event_id", eventID, "error", err)

		return nil
	case err != nil:
		logger.ErrorContext(ctx, "Failed to handle trigger event", "event_type", eventType, "event_id", eventID, "error", err)

		return err
	default:
		logger.InfoContext(ctx, "Trigger event handled", "event_type", eventType, "event_id", eventID, "runs", runs)

		return nil
	}
}

func runCount(result *workflow.RunResult) int {
	if result == nil {
		return 0
	}

	return 1
}
