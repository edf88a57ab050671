package main

import (
	"context"
	"os"

	"github.com/dukex/leadflow/pkg/cmd"
	"github.com/dukex/leadflow/pkg/log"
	cli "github.com/urfave/cli/v3"
)

const defaultPort = 9091

func main() {
	logger := log.WithModule("api")

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "Port to run the API server on",
			Value:   defaultPort,
			Sources: cli.EnvVars("PORT"),
		},
		&cli.StringFlag{
			Name:    "event-bus",
			Usage:   "Event bus type (kafka, gochannel); empty runs every trigger inline",
			Sources: cli.EnvVars("EVENT_BUS_TYPE"),
		},
	}

	cmd := &cli.Command{
		Name:                  "leadflow-api",
		Usage:                 "Manage workflows and receive trigger events",
		EnableShellCompletion: true,
		Flags:                 append(flags, cmd.CommonFlags()...),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing leadflow API")

			tracer, shutdown := cmd.NewTracer(ctx, logger, command.Bool("otel-enabled"), "leadflow-api")
			defer func() {
				err := shutdown(context.Background())
				if err != nil {
					logger.ErrorContext(ctx, "Failed to shutdown tracer", "error", err)
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

			provider := command.String("event-bus")

			eventBus := cmd.NewEventBus(provider, logger, command.StringSlice("kafka-brokers"))
			if eventBus != nil {
				defer func() {
					err := eventBus.Close()
					if err != nil {
						logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
					}
				}()
			}

			engine := cmd.NewEngine(logger, persistence, collaborators, eventBus, tracer)

			// Nothing outside this process can consume an in-memory bus.
			if provider == "gochannel" {
				err = cmd.RegisterTriggerHandlers(eventBus, engine.Service, logger)
				if err != nil {
					return err
				}

				err = eventBus.Subscribe(ctx)
				if err != nil {
					return err
				}
			}

			api := NewAPI(logger, persistence, engine, eventBus)

			err = api.Start(command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
