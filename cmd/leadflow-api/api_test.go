package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukex/leadflow/pkg/cmd"
	"github.com/dukex/leadflow/pkg/mocks"
	"github.com/dukex/leadflow/pkg/persistence/file"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) *API {
	t.Helper()

	p := file.NewPersistence(t.TempDir())
	collaborators := &cmd.Collaborators{
		Contacts:      &mocks.MockContactStore{},
		Conversations: &mocks.MockConversationStore{},
		Documents:     &mocks.MockDocumentGenerator{},
		Sender:        &mocks.MockEmailSender{},
		Models:        &mocks.MockModelCaller{},
		Credentials:   &mocks.MockCredentialResolver{},
	}

	return NewAPI(slog.Default(), p, cmd.NewEngine(slog.Default(), p, collaborators, nil, nil), nil)
}

func TestAPI_Routes(t *testing.T) {
	app := newTestAPI(t).App()

	tests := []struct {
		path   string
		status int
	}{
		{"/", http.StatusOK},
		{healthcheck.DefaultLivenessEndpoint, http.StatusOK},
		{healthcheck.DefaultReadinessEndpoint, http.StatusOK},
		{"/health", http.StatusOK},
		{"/workflows", http.StatusOK},
		{"/workflows/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)

			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestAPI_ListsEveryAction(t *testing.T) {
	app := newTestAPI(t).App()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/actions", nil))
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var actions []map[string]any
	require.NoError(t, json.Unmarshal(body, &actions))
	assert.Len(t, actions, 6)
}
