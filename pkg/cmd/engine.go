package cmd

import (
	"context"
	"log/slog"

	"github.com/dukex/leadflow/pkg/eventbus"
	"github.com/dukex/leadflow/pkg/ledger"
	"github.com/dukex/leadflow/pkg/otelhelper"
	"github.com/dukex/leadflow/pkg/persistence"
	"github.com/dukex/leadflow/pkg/registry"
	"github.com/dukex/leadflow/pkg/workflow"
	"go.opentelemetry.io/otel/trace"
)

// Engine is the execution stack shared by the binaries.
type Engine struct {
	Registry *registry.Registry
	Ledger   *ledger.Ledger
	Executor *workflow.Executor
	Service  *workflow.Service
}

// NewEngine builds the registry, ledger, executor and trigger service. Run
// lifecycle events are published when publisher is not nil.
func NewEngine(
	logger *slog.Logger,
	persistence persistence.Persistence,
	collaborators *Collaborators,
	publisher eventbus.EventPublisher,
	tracer trace.Tracer,
) *Engine {
	reg := NewRegistry(logger, collaborators)

	var opts []ledger.Option
	if publisher != nil {
		opts = append(opts, ledger.WithPublisher(publisher))
	}

	l := ledger.New(persistence.ExecutionLogRepository(), logger, opts...)
	executor := workflow.NewExecutor(reg, l, tracer, logger)

	return &Engine{
		Registry: reg,
		Ledger:   l,
		Executor: executor,
		Service:  workflow.NewService(persistence.WorkflowRepository(), reg, executor, collaborators.Contacts, logger),
	}
}

// NewTracer returns an exporting tracer when enabled and a no-op one otherwise.
// The returned shutdown func is always safe to call.
func NewTracer(ctx context.Context, logger *slog.Logger, enabled bool, name string) (trace.Tracer, otelhelper.ShutdownFunc) {
	noop := func(context.Context) error { return nil }

	if !enabled {
		return otelhelper.NoopTracer(), noop
	}

	tracer, shutdown, err := otelhelper.NewTracer(ctx, name)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize tracer, continuing without tracing", "error", err)

		return otelhelper.NoopTracer(), noop
	}

	return tracer, shutdown
}
