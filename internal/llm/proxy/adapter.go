package proxy

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/chalkline/assistant-api/internal/httpclient"
	"github.com/chalkline/assistant-api/internal/llm"
	"github.com/chalkline/assistant-api/pkg/api"
)

func init() {
	llm.Register(llm.Proxy, NewTransport)
}

// Transport targets a self-hosted OpenAI-compatible proxy. It is the
// one transport usable without an API key, since the proxy is assumed
// to sit inside the deployment's own network.
type Transport struct {
	config llm.ProviderConfig
	client *http.Client
}

func NewTransport(config llm.ProviderConfig) (llm.Transport, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("generic proxy requires a base URL")
	}
	if config.Model == "" {
		config.Model = "default"
	}
	return &Transport{
		config: config,
		// Proxies may add hops, so the backstop is looser here.
		client: &http.Client{Timeout: 120 * time.Second},
	}, nil
}

func (t *Transport) Kind() llm.Kind   { return llm.Proxy }
func (t *Transport) Multimodal() bool { return false }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (t *Transport) Generate(ctx context.Context, req *api.GenerationRequest) (string, error) {
	body := chatCompletionRequest{
		Model:       t.config.Model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	return t.send(ctx, body)
}

func (t *Transport) Chat(ctx context.Context, req *api.ChatRequest) (string, error) {
	body := chatCompletionRequest{
		Model:       t.config.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	for _, m := range req.Messages {
		body.Messages = append(body.Messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}
	return t.send(ctx, body)
}

func (t *Transport) send(ctx context.Context, body chatCompletionRequest) (string, error) {
	headers := map[string]string{}
	if t.config.APIKey != "" {
		headers["Authorization"] = "Bearer " + t.config.APIKey
	}

	url := fmt.Sprintf("%s/chat/completions", strings.TrimRight(t.config.BaseURL, "/"))

	var resp chatCompletionResponse
	if err := httpclient.SendRequest(ctx, t.client, "POST", url, headers, body, &resp); err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == nil {
		return "", llm.ErrEmptyResponse
	}
	text := *resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", llm.ErrEmptyResponse
	}

	return text, nil
}
