package extractor

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/sumr_go_server/config"
)

func newTestClient(serverURL string) *Client {
	return NewClient(&config.ExtractorConfig{
		BaseURL:        serverURL,
		TimeoutSeconds: 5,
	})
}

func TestClient_Extract_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/extract", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "doc.pdf", header.Filename)

		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4 fake", string(content))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text": "extracted content"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	text, err := client.Extract(context.Background(), "doc.pdf", strings.NewReader("%PDF-1.4 fake"))
	require.NoError(t, err)
	assert.Equal(t, "extracted content", text)
}

func TestClient_Extract_UnsupportedMediaType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnsupportedMediaType)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Extract(context.Background(), "weird.bin", strings.NewReader("data"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestClient_Extract_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Extract(context.Background(), "doc.pdf", strings.NewReader("data"))
	var extractErr *ExtractionError
	require.True(t, errors.As(err, &extractErr))
	assert.Equal(t, http.StatusInternalServerError, extractErr.StatusCode)
	assert.Contains(t, extractErr.Message, "boom")
}

func TestClient_Extract_ErrorInBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text": "", "error": "file is corrupted"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Extract(context.Background(), "doc.pdf", strings.NewReader("data"))
	var extractErr *ExtractionError
	require.True(t, errors.As(err, &extractErr))
	assert.Equal(t, "file is corrupted", extractErr.Message)
}

func TestClient_Extract_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"text": "too late"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Extract(ctx, "doc.pdf", strings.NewReader("data"))
	assert.Error(t, err)
}
