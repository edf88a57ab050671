package main

import (
	"context"
	"os"
	"time"

	"github.com/dukex/leadflow/pkg/cmd"
	"github.com/dukex/leadflow/pkg/log"
	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"
)

const (
	defaultStaleRunAfter    = 30 * time.Minute
	defaultStaleRunSchedule = "*/5 * * * *"
)

func main() {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "worker-id",
			Aliases: []string{"id"},
			Usage:   "Custom worker ID (auto-generated if not provided)",
			Value:   "",
			Sources: cli.EnvVars("WORKER_ID"),
		},
		&cli.StringFlag{
			Name:     "event-bus",
			Usage:    "Event bus type (kafka, gochannel)",
			Required: true,
			Sources:  cli.EnvVars("EVENT_BUS_TYPE"),
		},
		&cli.DurationFlag{
			Name:    "stale-run-after",
			Usage:   "Close runs still running after this long",
			Value:   defaultStaleRunAfter,
			Sources: cli.EnvVars("STALE_RUN_AFTER"),
		},
		&cli.StringFlag{
			Name:    "stale-run-schedule",
			Usage:   "Cron schedule of the stale run reaper, empty disables it",
			Value:   defaultStaleRunSchedule,
			Sources: cli.EnvVars("STALE_RUN_SCHEDULE"),
		},
	}

	cmd := &cli.Command{
		Name:                  "leadflow-worker",
		EnableShellCompletion: true,
		Usage:                 "Consume trigger events and execute workflows",
		Flags:                 append(flags, cmd.CommonFlags()...),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			workerID := command.String("worker-id")
			if workerID == "" {
				workerID = "worker-" + uuid.New().String()[:8]
			}

			logger := log.WithModule("leadflow-worker").With("workerId", workerID)

			logger.InfoContext(ctx, "Initializing leadflow worker")

			tracer, shutdown := cmd.NewTracer(ctx, logger, command.Bool("otel-enabled"), "leadflow-worker")
			defer func() {
				err := shutdown(context.Background())
				if err != nil {
					logger.ErrorContext(ctx, "Failed to shutdown tracer", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus(command.String("event-bus"), logger, command.StringSlice("kafka-brokers"))
			if eventBus == nil {
				return cli.Exit("the worker needs an event bus", 1)
			}

			defer func() {
				err := eventBus.Close()
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			persistence := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			defer func() {
				err := persistence.Close(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			collaborators, err := cmd.NewCollaborators(ctx, logger, cmd.CollaboratorsConfigFrom(command))
			if err != nil {
				return err
			}

			defer func() {
				err := collaborators.Close()
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close collaborators", "error", err)
				}
			}()

			engine := cmd.NewEngine(logger, persistence, collaborators, eventBus, tracer)

			var reaper *Reaper
			if schedule := command.String("stale-run-schedule"); schedule != "" {
				reaper, err = NewReaper(engine.Ledger, schedule, command.Duration("stale-run-after"), logger)
				if err != nil {
					return err
				}
			}

			worker := NewWorkerManager(workerID, eventBus, engine.Service, reaper, logger)

			err = worker.Start(ctx)
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start event-driven worker", "error", err)
			}

			return nil
		},
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
