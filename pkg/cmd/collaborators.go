package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukex/leadflow/pkg/adapters/documents"
	"github.com/dukex/leadflow/pkg/adapters/llm"
	"github.com/dukex/leadflow/pkg/adapters/redis"
	"github.com/dukex/leadflow/pkg/adapters/smtp"
	"github.com/dukex/leadflow/pkg/protocol"
)

// CollaboratorsConfig configures the outside services actions call.
type CollaboratorsConfig struct {
	RedisURL        string
	SMTP            smtp.Config
	RenderURL       string
	RenderTimeout   time.Duration
	DocumentsBucket string
	DocumentURLTTL  time.Duration
	LLMBaseURL      string
}

// Collaborators holds the services bound into action factories.
type Collaborators struct {
	Contacts      protocol.ContactStore
	Conversations protocol.ConversationStore
	Documents     protocol.DocumentGenerator
	Sender        protocol.EmailSender
	Models        protocol.ModelCaller
	Credentials   protocol.CredentialResolver

	closers []func() error
}

func NewCollaborators(ctx context.Context, logger *slog.Logger, config CollaboratorsConfig) (*Collaborators, error) {
	store, err := redis.New(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact store: %w", err)
	}

	err = store.Ping(ctx)
	if err != nil {
		_ = store.Close()

		return nil, fmt.Errorf("failed to reach contact store: %w", err)
	}

	sender, err := smtp.NewSender(config.SMTP)
	if err != nil {
		_ = store.Close()

		return nil, fmt.Errorf("failed to create email sender: %w", err)
	}

	opts := []documents.Option{}
	if config.DocumentURLTTL > 0 {
		opts = append(opts, documents.WithURLTTL(config.DocumentURLTTL))
	}

	generator, err := documents.NewS3Generator(ctx, documents.NewRenderClient(config.RenderURL, config.RenderTimeout), config.DocumentsBucket, opts...)
	if err != nil {
		_ = store.Close()

		return nil, fmt.Errorf("failed to create document generator: %w", err)
	}

	var llmOpts []llm.Option
	if config.LLMBaseURL != "" {
		endpoint := llm.DefaultEndpoints[llm.ProviderOpenAI]
		endpoint.BaseURL = config.LLMBaseURL
		llmOpts = append(llmOpts, llm.WithEndpoint(llm.ProviderOpenAI, endpoint))
	}

	logger.InfoContext(ctx, "Collaborators initialized",
		"documents_bucket", config.DocumentsBucket,
		"smtp_host", config.SMTP.Host,
	)

	return &Collaborators{
		Contacts:      store,
		Conversations: store,
		Documents:     generator,
		Sender:        sender,
		Models:        llm.NewClient(llmOpts...),
		Credentials:   llm.NewEnvCredentialResolver(),
		closers:       []func() error{store.Close},
	}, nil
}

func (c *Collaborators) Close() error {
	var errs []error

	for _, closer := range c.closers {
		if err := closer(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
