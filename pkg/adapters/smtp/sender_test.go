package smtp

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

type recordingClient struct {
	sent []*mail.Msg
	err  error
}

func (c *recordingClient) DialAndSendWithContext(_ context.Context, messages ...*mail.Msg) error {
	c.sent = append(c.sent, messages...)

	return c.err
}

func TestSender_Send(t *testing.T) {
	client := &recordingClient{}
	sender := &Sender{from: "quotes@acme.test", client: client}

	err := sender.Send(t.Context(), "ana@example.com", "Your quote", "<p>Download it here</p>")
	require.NoError(t, err)
	require.Len(t, client.sent, 1)

	var buf bytes.Buffer

	_, err = client.sent[0].WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "From: <quotes@acme.test>")
	assert.Contains(t, raw, "To: <ana@example.com>")
	assert.Contains(t, raw, "Subject: Your quote")
	assert.Contains(t, raw, "text/html")
	assert.Contains(t, raw, "Download it here")
}

func TestSender_InvalidRecipient(t *testing.T) {
	client := &recordingClient{}
	sender := &Sender{from: "quotes@acme.test", client: client}

	err := sender.Send(t.Context(), "not an address", "Hi", "Body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid recipient address")
	assert.Empty(t, client.sent)
}

func TestSender_DeliveryFailure(t *testing.T) {
	sender := &Sender{from: "quotes@acme.test", client: &recordingClient{err: errors.New("554 rejected")}}

	err := sender.Send(t.Context(), "ana@example.com", "Hi", "Body")
	require.Error(t, err)
	assert.Equal(t, "554 rejected", err.Error())
}

func TestNewSender(t *testing.T) {
	_, err := NewSender(Config{})
	assert.ErrorIs(t, err, ErrMissingHost)

	sender, err := NewSender(Config{Host: "localhost", Port: 2525, Username: "u", Password: "p", From: "quotes@acme.test"})
	require.NoError(t, err)
	assert.Equal(t, "quotes@acme.test", sender.from)
}
