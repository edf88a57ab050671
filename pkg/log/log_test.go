package log

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	fallback := slog.Default()
	scoped := slog.Default().With("run_id", "r1")

	assert.Same(t, fallback, FromContext(context.Background(), fallback))
	assert.Same(t, scoped, FromContext(WithLogger(context.Background(), scoped), fallback))
}

func TestWithModule(t *testing.T) {
	assert.NotNil(t, WithModule("executor"))
}
