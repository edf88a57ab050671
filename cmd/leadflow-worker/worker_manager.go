package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dukex/leadflow/pkg/cmd"
	"github.com/dukex/leadflow/pkg/eventbus"
	"github.com/dukex/leadflow/pkg/workflow"
)

type WorkerManager struct {
	id       string
	logger   *slog.Logger
	eventBus eventbus.EventBus
	service  *workflow.Service
	reaper   *Reaper
}

func NewWorkerManager(
	id string,
	eventBus eventbus.EventBus,
	service *workflow.Service,
	reaper *Reaper,
	logger *slog.Logger,
) *WorkerManager {
	return &WorkerManager{
		id:       id,
		logger:   logger.With("module", "leadflow-worker", "worker_id", id),
		eventBus: eventBus,
		service:  service,
		reaper:   reaper,
	}
}

// Start consumes trigger events until the process is signalled.
func (w *WorkerManager) Start(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Starting worker manager", "worker_id", w.id)

	err := cmd.RegisterTriggerHandlers(w.eventBus, w.service, w.logger)
	if err != nil {
		return err
	}

	err = w.eventBus.Subscribe(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to subscribe to event bus", "error", err)

		return err
	}

	if w.reaper != nil {
		err = w.reaper.Start(ctx)
		if err != nil {
			return err
		}

		defer w.reaper.Stop()
	}

	w.logger.InfoContext(ctx, "Worker started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
	case <-ctx.Done():
	}

	w.logger.InfoContext(ctx, "Shutting down worker...")

	return nil
}
