package client

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chalkline/assistant-api/internal/config"
	"github.com/chalkline/assistant-api/internal/httpclient"
	"github.com/chalkline/assistant-api/internal/llm"
	"github.com/chalkline/assistant-api/internal/store/model"
	"github.com/chalkline/assistant-api/pkg/api"
)

type fakeTransport struct {
	kind       llm.Kind
	text       string
	err        error
	lastPrompt string
}

func (f *fakeTransport) Kind() llm.Kind   { return f.kind }
func (f *fakeTransport) Multimodal() bool { return false }

func (f *fakeTransport) Generate(_ context.Context, req *api.GenerationRequest) (string, error) {
	f.lastPrompt = req.Prompt
	return f.text, f.err
}

func (f *fakeTransport) Chat(context.Context, *api.ChatRequest) (string, error) {
	return f.text, f.err
}

func newTestClient(ft *fakeTransport) *Client {
	return New(Options{
		Tenant:    &model.TenantSettings{Provider: string(ft.kind), APIKey: "sk-test"},
		transport: ft,
	})
}

func TestDemoModeNeverErrors(t *testing.T) {
	c := New(Options{})
	assert.True(t, c.DemoMode())
	assert.Equal(t, "demo", c.Provider())

	out := c.Generate(context.Background(), &api.GenerationRequest{Prompt: "anything"})
	assert.False(t, strings.HasPrefix(out, errorPrefix))
	assert.True(t, json.Valid([]byte(out)), "demo payload must be valid JSON")

	chat := c.Chat(context.Background(), &api.ChatRequest{
		Messages: []api.ChatMessage{{Role: api.RoleUser, Content: "hi"}},
	})
	assert.NotEmpty(t, chat)
	assert.False(t, strings.HasPrefix(chat, errorPrefix))
}

func TestGenerateSuccess(t *testing.T) {
	ft := &fakeTransport{kind: llm.OpenAI, text: `{"simple_explanation": "ok"}`}
	c := newTestClient(ft)

	out := c.Generate(context.Background(), &api.GenerationRequest{Prompt: "explain gravity"})
	assert.Equal(t, `{"simple_explanation": "ok"}`, out)
	assert.Equal(t, "explain gravity", ft.lastPrompt)
	assert.False(t, c.DemoMode())
	assert.Equal(t, "openai", c.Provider())
}

func TestGenerateFailureStrings(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"Timeout", context.DeadlineExceeded, "the request timed out"},
		{"Cancelled", context.Canceled, "the request was cancelled"},
		{"Empty response", llm.ErrEmptyResponse, "empty"},
		{"Upstream status", &httpclient.UpstreamError{StatusCode: 502, URL: "http://x"}, "status 502"},
		{"Unknown error", errors.New("connection refused"), "connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(&fakeTransport{kind: llm.OpenAI, err: tt.err})
			out := c.Generate(context.Background(), &api.GenerationRequest{Prompt: "p"})
			assert.True(t, strings.HasPrefix(out, errorPrefix), "got %q", out)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestChatFailureUsesSameConvention(t *testing.T) {
	c := newTestClient(&fakeTransport{kind: llm.Anthropic, err: llm.ErrEmptyResponse})
	out := c.Chat(context.Background(), &api.ChatRequest{
		Messages: []api.ChatMessage{{Role: api.RoleUser, Content: "hi"}},
	})
	assert.True(t, strings.HasPrefix(out, errorPrefix))
	assert.Contains(t, out, "empty")
}

func TestLanguageInstructionPrepended(t *testing.T) {
	ft := &fakeTransport{kind: llm.OpenAI, text: "ok"}
	c := newTestClient(ft)

	c.Generate(context.Background(), &api.GenerationRequest{Prompt: "explain gravity", Language: "fr"})
	assert.True(t, strings.HasSuffix(ft.lastPrompt, "explain gravity"))
	assert.Contains(t, ft.lastPrompt, `"fr"`)

	c.Generate(context.Background(), &api.GenerationRequest{Prompt: "explain gravity", Language: "en"})
	assert.Equal(t, "explain gravity", ft.lastPrompt)
}

func TestConstructionFailureDowngradesToDemo(t *testing.T) {
	// Azure requires a base URL; without one construction fails and the
	// client must degrade, not error.
	c := New(Options{
		Tenant: &model.TenantSettings{Provider: "azure", APIKey: "sk-test", Model: "gpt-4o"},
	})
	assert.True(t, c.DemoMode())

	out := c.Generate(context.Background(), &api.GenerationRequest{Prompt: "p"})
	assert.True(t, json.Valid([]byte(out)))
}

func TestFallbackAvailable(t *testing.T) {
	envProxy := config.ProviderEnv{Name: "proxy", BaseURL: "http://llm.internal:8000/v1"}

	c := New(Options{
		Tenant:    &model.TenantSettings{Provider: "openai", APIKey: "sk-test"},
		Env:       envProxy,
		transport: &fakeTransport{kind: llm.OpenAI},
	})
	assert.True(t, c.FallbackAvailable())

	// Primary already resolved to the proxy tier, nothing to fall back to.
	c = New(Options{
		Tenant:    &model.TenantSettings{Provider: "proxy", BaseURL: "http://llm.internal:8000/v1"},
		transport: &fakeTransport{kind: llm.Proxy},
	})
	assert.False(t, c.FallbackAvailable())

	c = New(Options{
		Tenant:    &model.TenantSettings{Provider: "openai", APIKey: "sk-test"},
		transport: &fakeTransport{kind: llm.OpenAI},
	})
	assert.False(t, c.FallbackAvailable())
}
