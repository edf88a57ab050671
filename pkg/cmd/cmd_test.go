package cmd_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/dukex/leadflow/pkg/cmd"
	"github.com/dukex/leadflow/pkg/events"
	"github.com/dukex/leadflow/pkg/mocks"
	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/persistence/file"
	"github.com/dukex/leadflow/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testCollaborators() *cmd.Collaborators {
	return &cmd.Collaborators{
		Contacts:      &mocks.MockContactStore{},
		Conversations: &mocks.MockConversationStore{},
		Documents:     &mocks.MockDocumentGenerator{},
		Sender:        &mocks.MockEmailSender{},
		Models:        &mocks.MockModelCaller{},
		Credentials:   &mocks.MockCredentialResolver{},
	}
}

func TestNewRegistry_RegistersEveryAction(t *testing.T) {
	reg := cmd.NewRegistry(slog.Default(), testCollaborators())

	kinds := []models.ActionKind{}
	for _, factory := range reg.ActionFactories() {
		kinds = append(kinds, factory.ID())
	}

	assert.Equal(t, []models.ActionKind{
		models.ActionKindAddTag,
		models.ActionKindGenerateDocument,
		models.ActionKindInvokeModel,
		models.ActionKindNoop,
		models.ActionKindSendChatMessage,
		models.ActionKindSendEmail,
	}, kinds)
}

func TestNewPersistence_FileFallback(t *testing.T) {
	dir := t.TempDir()

	for _, url := range []string{dir, "file://" + dir} {
		p := cmd.NewPersistence(t.Context(), slog.Default(), url)
		require.NotNil(t, p)
		assert.NoError(t, p.HealthCheck(t.Context()))
	}
}

func TestNewEventBus(t *testing.T) {
	assert.Nil(t, cmd.NewEventBus("", slog.Default(), nil))

	bus := cmd.NewEventBus("gochannel", slog.Default(), nil)
	require.NotNil(t, bus)
	assert.NoError(t, bus.Close())

	assert.Panics(t, func() { cmd.NewEventBus("rabbitmq", slog.Default(), nil) })
}

func TestCollaborators_CloseWithoutResources(t *testing.T) {
	assert.NoError(t, testCollaborators().Close())
}

func TestRegisterTriggerHandlers_RunsTagWorkflow(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	collaborators := testCollaborators()
	contacts := collaborators.Contacts.(*mocks.MockContactStore)
	contacts.On("Contact", mock.Anything, "contact-1").Return(&models.Contact{ID: "contact-1"}, nil)

	engine := cmd.NewEngine(slog.Default(), p, collaborators, nil, nil)

	wf := testutil.CreateTestWorkflow("acct-1",
		testutil.CreateTestNode(testutil.WithID("trigger"), testutil.WithTrigger(models.TriggerKindTagAdded, map[string]any{"tag": "vip"})),
		testutil.CreateTestNode(testutil.WithID("noop")),
	)
	require.NoError(t, p.WorkflowRepository().Save(t.Context(), wf))

	bus := cmd.NewEventBus("gochannel", slog.Default(), nil)
	t.Cleanup(func() { _ = bus.Close() })

	require.NoError(t, cmd.RegisterTriggerHandlers(bus, engine.Service, slog.Default()))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	require.NoError(t, bus.Subscribe(ctx))

	// Invalid events are dropped without a run.
	require.NoError(t, bus.Publish(ctx, "contact-1", events.NewTagAdded("acct-1", "contact-1", "")))
	require.NoError(t, bus.Publish(ctx, "contact-1", events.NewTagAdded("acct-1", "contact-1", "vip")))

	require.Eventually(t, func() bool {
		runs, err := p.ExecutionLogRepository().ListRunsByWorkflow(ctx, wf.ID)

		return err == nil && len(runs) == 1 && runs[0].IsFinished()
	}, 5*time.Second, 20*time.Millisecond)

	runs, err := p.ExecutionLogRepository().ListRunsByWorkflow(ctx, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TriggerTypeTagAdded, runs[0].TriggerType)
	assert.Equal(t, models.RunStatusSuccess, runs[0].Status)
}

func TestNewTracer_Disabled(t *testing.T) {
	tracer, shutdown := cmd.NewTracer(t.Context(), slog.Default(), false, "leadflow-test")
	require.NotNil(t, tracer)
	assert.NoError(t, shutdown(t.Context()))
}
