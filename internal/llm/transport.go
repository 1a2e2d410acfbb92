package llm

import (
	"context"
	"errors"

	"github.com/chalkline/assistant-api/pkg/api"
)

// Kind identifies one concrete generative-AI backend.
type Kind string

const (
	OpenAI      Kind = "openai"
	Gemini      Kind = "gemini"
	AzureOpenAI Kind = "azure"
	Anthropic   Kind = "anthropic"
	Proxy       Kind = "proxy" // generic OpenAI-compatible proxy
)

// ErrEmptyResponse marks a 200-level reply whose content field was null
// or blank. Downstream JSON repair cannot recover signal from true
// emptiness, so transports must surface it instead of returning "".
var ErrEmptyResponse = errors.New("provider returned an empty response")

// ProviderConfig is the resolved, per-request configuration a transport
// is constructed with. It is owned by one client instance and never
// shared across requests.
type ProviderConfig struct {
	Kind    Kind
	APIKey  string
	Model   string
	BaseURL string
}

// Transport is the capability surface of one provider backend. One
// concrete adapter exists per Kind, selected once at construction.
type Transport interface {
	Kind() Kind

	// Multimodal reports whether the transport consumes media refs.
	// Transports that return false ignore them silently.
	Multimodal() bool

	Generate(ctx context.Context, req *api.GenerationRequest) (string, error)
	Chat(ctx context.Context, req *api.ChatRequest) (string, error)
}
