package cmd

import (
	"time"

	"github.com/dukex/leadflow/pkg/adapters/smtp"
	cli "github.com/urfave/cli/v3"
)

const (
	defaultRenderTimeout  = 30 * time.Second
	defaultDocumentURLTTL = 7 * 24 * time.Hour
	defaultSMTPPort       = 587
)

// CommonFlags are shared by every binary that executes workflows.
func CommonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "database-url",
			Usage:    "Database connection URL for persistence (postgres:// or a directory)",
			Required: true,
			Sources:  cli.EnvVars("DATABASE_URL"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			Value:   "info",
			Sources: cli.EnvVars("LOG_LEVEL"),
		},
		&cli.StringSliceFlag{
			Name:    "kafka-brokers",
			Usage:   "Kafka brokers used when the event bus is kafka",
			Value:   []string{"localhost:9092"},
			Sources: cli.EnvVars("KAFKA_BROKERS"),
		},
		&cli.BoolFlag{
			Name:    "otel-enabled",
			Usage:   "Export traces with OpenTelemetry",
			Sources: cli.EnvVars("OTEL_ENABLED"),
		},
		&cli.StringFlag{
			Name:     "redis-url",
			Usage:    "Redis URL of the contact and chat stores",
			Required: true,
			Sources:  cli.EnvVars("REDIS_URL"),
		},
		&cli.StringFlag{
			Name:     "smtp-host",
			Usage:    "SMTP server host",
			Required: true,
			Sources:  cli.EnvVars("SMTP_HOST"),
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Usage:   "SMTP server port",
			Value:   defaultSMTPPort,
			Sources: cli.EnvVars("SMTP_PORT"),
		},
		&cli.StringFlag{
			Name:    "smtp-username",
			Usage:   "SMTP username, authentication is skipped when empty",
			Sources: cli.EnvVars("SMTP_USERNAME"),
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "SMTP password",
			Sources: cli.EnvVars("SMTP_PASSWORD"),
		},
		&cli.StringFlag{
			Name:     "smtp-from",
			Usage:    "Sender address of outgoing emails",
			Required: true,
			Sources:  cli.EnvVars("SMTP_FROM"),
		},
		&cli.StringFlag{
			Name:     "render-url",
			Usage:    "Base URL of the PDF render service",
			Required: true,
			Sources:  cli.EnvVars("RENDER_URL"),
		},
		&cli.DurationFlag{
			Name:    "render-timeout",
			Usage:   "Timeout of one render request",
			Value:   defaultRenderTimeout,
			Sources: cli.EnvVars("RENDER_TIMEOUT"),
		},
		&cli.StringFlag{
			Name:     "documents-bucket",
			Usage:    "S3 bucket receiving generated documents",
			Required: true,
			Sources:  cli.EnvVars("DOCUMENTS_BUCKET"),
		},
		&cli.DurationFlag{
			Name:    "document-url-ttl",
			Usage:   "Lifetime of signed document URLs",
			Value:   defaultDocumentURLTTL,
			Sources: cli.EnvVars("DOCUMENT_URL_TTL"),
		},
		&cli.StringFlag{
			Name:    "llm-base-url",
			Usage:   "Override the base URL of the openai provider",
			Sources: cli.EnvVars("LLM_BASE_URL"),
		},
	}
}

// CollaboratorsConfigFrom reads the collaborator flags of a command.
func CollaboratorsConfigFrom(command *cli.Command) CollaboratorsConfig {
	return CollaboratorsConfig{
		RedisURL: command.String("redis-url"),
		SMTP: smtp.Config{
			Host:     command.String("smtp-host"),
			Port:     command.Int("smtp-port"),
			Username: command.String("smtp-username"),
			Password: command.String("smtp-password"),
			From:     command.String("smtp-from"),
		},
		RenderURL:       command.String("render-url"),
		RenderTimeout:   command.Duration("render-timeout"),
		DocumentsBucket: command.String("documents-bucket"),
		DocumentURLTTL:  command.Duration("document-url-ttl"),
		LLMBaseURL:      command.String("llm-base-url"),
	}
}
