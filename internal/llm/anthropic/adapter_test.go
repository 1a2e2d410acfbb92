package anthropic_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chalkline/assistant-api/internal/llm"
	"github.com/chalkline/assistant-api/internal/llm/anthropic"
	"github.com/chalkline/assistant-api/pkg/api"
)

func TestAnthropicGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		// max_tokens is mandatory on this API and must be defaulted.
		assert.Equal(t, float64(4096), body["max_tokens"])

		_, _ = w.Write([]byte(`{
			"content": [{"type": "text", "text": "{\"final_answer\": \"6\"}"}],
			"stop_reason": "end_turn"
		}`))
	}))
	defer server.Close()

	transport, err := anthropic.NewTransport(llm.ProviderConfig{
		APIKey:  "test-key",
		BaseURL: server.URL + "/v1",
	})
	assert.NoError(t, err)

	text, err := transport.Generate(context.Background(), &api.GenerationRequest{Prompt: "solve 2x = 12"})
	assert.NoError(t, err)
	assert.Equal(t, `{"final_answer": "6"}`, text)
}

func TestAnthropicSystemTurnsLifted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			System   string `json:"system"`
			Messages []struct {
				Role string `json:"role"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "You are a teaching assistant.", body.System)
		assert.Len(t, body.Messages, 2)
		assert.Equal(t, "user", body.Messages[0].Role)
		assert.Equal(t, "assistant", body.Messages[1].Role)

		_, _ = w.Write([]byte(`{"content": [{"type": "text", "text": "ok"}]}`))
	}))
	defer server.Close()

	transport, err := anthropic.NewTransport(llm.ProviderConfig{APIKey: "k", BaseURL: server.URL})
	assert.NoError(t, err)

	_, err = transport.Chat(context.Background(), &api.ChatRequest{
		Messages: []api.ChatMessage{
			{Role: "system", Content: "You are a teaching assistant."},
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "hello"},
		},
	})
	assert.NoError(t, err)
}

func TestAnthropicEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content": [], "stop_reason": "end_turn"}`))
	}))
	defer server.Close()

	transport, err := anthropic.NewTransport(llm.ProviderConfig{APIKey: "k", BaseURL: server.URL})
	assert.NoError(t, err)

	_, err = transport.Generate(context.Background(), &api.GenerationRequest{Prompt: "p"})
	assert.True(t, errors.Is(err, llm.ErrEmptyResponse), "got %v", err)
}
