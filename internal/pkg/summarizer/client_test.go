package summarizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/sumr_go_server/config"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(&config.SummarizerConfig{
		BaseURL:        server.URL,
		APIKey:         "test-key",
		TimeoutSeconds: 5,
	})
	return client, server
}

func TestClient_Summarize_Success(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotReq)

		json.NewEncoder(w).Encode(chatResponse{
			Choices: []struct {
				Message chatMessage `json:"message"`
			}{
				{Message: chatMessage{Role: "assistant", Content: "短摘要"}},
			},
		})
	})
	defer server.Close()

	out, err := client.Summarize(context.Background(), "一段很长的原文", "gpt-4o-mini", Options{Length: "short"})
	require.NoError(t, err)
	assert.Equal(t, "短摘要", out)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "一段很长的原文", gotReq.Messages[1].Content)
}

func TestClient_Summarize_HTTPError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	})
	defer server.Close()

	_, err := client.Summarize(context.Background(), "text", "gpt-4o-mini", Options{})
	require.Error(t, err)

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, http.StatusTooManyRequests, gwErr.StatusCode)
}

func TestClient_Summarize_EmptyChoices(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})
	defer server.Close()

	_, err := client.Summarize(context.Background(), "text", "gpt-4o-mini", Options{})

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
}

func TestBuildSystemPrompt(t *testing.T) {
	prompt := buildSystemPrompt(Options{Style: "bullet", Length: "short", Language: "Chinese"})
	assert.Contains(t, prompt, "bullet points")
	assert.Contains(t, prompt, "under 3 sentences")
	assert.Contains(t, prompt, "Chinese")

	// 默认走 concise
	assert.Contains(t, buildSystemPrompt(Options{}), "concise")
}
