package documents

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ protocol.DocumentGenerator = (*Generator)(nil)

func contact() *models.Contact {
	return &models.Contact{ID: "c1", Name: "Ana Maria Souza", Email: "ana@example.com", Phone: "555-0100"}
}

func TestRenderClient_Render(t *testing.T) {
	var got renderRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/render", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.7 fake"))
	}))
	defer server.Close()

	client := NewRenderClient(server.URL+"/", time.Second)

	pdf, err := client.Render(t.Context(), "standard", contact(), 120.5)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 fake", string(pdf))

	assert.Equal(t, "standard", got.TemplateID)
	assert.Equal(t, "Ana", got.Contact.FirstName)
	assert.Equal(t, "Maria Souza", got.Contact.LastName)
	assert.Equal(t, "ana@example.com", got.Contact.Email)
	assert.InDelta(t, 120.5, got.Measurement, 0.001)
}

func TestRenderClient_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no template", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	_, err := NewRenderClient(server.URL, time.Second).Render(t.Context(), "", contact(), 10)
	require.ErrorIs(t, err, ErrRenderFailed)
	assert.Contains(t, err.Error(), "no template")
}

type fakeRenderer struct {
	pdf []byte
	err error
}

func (f fakeRenderer) Render(context.Context, string, *models.Contact, float64) ([]byte, error) {
	return f.pdf, f.err
}

type fakeS3 struct {
	uploaded  map[string]string
	putErr    error
	presigned []*s3.GetObjectInput
	expires   time.Duration
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}

	body, _ := io.ReadAll(params.Body)
	if f.uploaded == nil {
		f.uploaded = map[string]string{}
	}

	f.uploaded[*params.Bucket+"/"+*params.Key] = string(body)

	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) PresignGetObject(_ context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	options := s3.PresignOptions{}
	for _, fn := range optFns {
		fn(&options)
	}

	f.expires = options.Expires
	f.presigned = append(f.presigned, params)

	return &v4.PresignedHTTPRequest{URL: "https://bucket.s3.test/" + *params.Key + "?X-Amz-Signature=abc"}, nil
}

func TestGenerator_Generate(t *testing.T) {
	store := &fakeS3{}
	generator := NewGenerator(fakeRenderer{pdf: []byte("%PDF")}, store, store, "docs", WithKeyPrefix("q"), WithURLTTL(time.Hour))

	document, err := generator.Generate(t.Context(), "standard", contact(), 99)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(document.StoragePath, "q/c1/"))
	assert.True(t, strings.HasSuffix(document.StoragePath, ".pdf"))
	assert.Equal(t, "%PDF", store.uploaded["docs/"+document.StoragePath])
	assert.Equal(t, "https://bucket.s3.test/"+document.StoragePath+"?X-Amz-Signature=abc", document.URL)
	assert.Equal(t, time.Hour, store.expires)
}

func TestGenerator_Failures(t *testing.T) {
	store := &fakeS3{}

	_, err := NewGenerator(fakeRenderer{err: errors.New("no template")}, store, store, "docs").
		Generate(t.Context(), "", contact(), 1)
	require.EqualError(t, err, "no template")
	assert.Empty(t, store.uploaded)

	failing := &fakeS3{putErr: errors.New("access denied")}

	_, err = NewGenerator(fakeRenderer{pdf: []byte("%PDF")}, failing, failing, "docs").
		Generate(t.Context(), "", &models.Contact{Name: "Anon"}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
	assert.Contains(t, err.Error(), "quotes/anonymous/")
	assert.Empty(t, failing.presigned)
}
