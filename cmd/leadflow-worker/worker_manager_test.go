package main

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/dukex/leadflow/pkg/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWorkerManager_StartRegistersTriggersAndStopsOnCancel(t *testing.T) {
	bus := &mocks.MockEventBus{}
	bus.On("Handle", mock.Anything, mock.Anything).Return(nil)
	bus.On("Subscribe", mock.Anything).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())

	worker := NewWorkerManager("worker-test", bus, nil, nil, slog.Default())

	done := make(chan error, 1)

	go func() { done <- worker.Start(ctx) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}

	bus.AssertNumberOfCalls(t, "Handle", 4)
	bus.AssertCalled(t, "Subscribe", mock.Anything)
}

func TestWorkerManager_SubscribeFailure(t *testing.T) {
	bus := &mocks.MockEventBus{}
	bus.On("Handle", mock.Anything, mock.Anything).Return(nil)
	bus.On("Subscribe", mock.Anything).Return(assert.AnError)

	worker := NewWorkerManager("worker-test", bus, nil, nil, slog.Default())

	err := worker.Start(t.Context())
	assert.ErrorIs(t, err, assert.AnError)
}
