package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chalkline/assistant-api/internal/llm"
	"github.com/chalkline/assistant-api/internal/llm/gemini"
	"github.com/chalkline/assistant-api/pkg/api"
)

func TestGeminiGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		_, _ = w.Write([]byte(`{
			"candidates": [{
				"content": {"parts": [{"text": "{\"warm_up\": "}, {"text": "\"quiz\"}"}]}
			}]
		}`))
	}))
	defer server.Close()

	transport, err := gemini.NewTransport(llm.ProviderConfig{
		APIKey:  "test-key",
		Model:   "gemini-1.5-flash",
		BaseURL: server.URL,
	})
	assert.NoError(t, err)

	text, err := transport.Generate(context.Background(), &api.GenerationRequest{Prompt: "plan a lesson"})
	assert.NoError(t, err)
	assert.Equal(t, `{"warm_up": "quiz"}`, text)
}

func TestGeminiChatRoleMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			SystemInstruction *struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"system_instruction"`
			Contents []struct {
				Role string `json:"role"`
			} `json:"contents"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotNil(t, body.SystemInstruction)
		assert.Equal(t, "Teach kindly.", body.SystemInstruction.Parts[0].Text)
		assert.Len(t, body.Contents, 2)
		assert.Equal(t, "user", body.Contents[0].Role)
		assert.Equal(t, "model", body.Contents[1].Role)

		_, _ = w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "ok"}]}}]}`))
	}))
	defer server.Close()

	transport, err := gemini.NewTransport(llm.ProviderConfig{APIKey: "k", Model: "gemini-1.5-flash", BaseURL: server.URL})
	assert.NoError(t, err)

	_, err = transport.Chat(context.Background(), &api.ChatRequest{
		Messages: []api.ChatMessage{
			{Role: "system", Content: "Teach kindly."},
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "hello"},
		},
	})
	assert.NoError(t, err)
}
