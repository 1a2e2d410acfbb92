package azure

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

const apiVersion = "2024-02-15-preview"

func init() {
	llm.Register(llm.AzureOpenAI, NewTransport)
}

// Transport speaks the Azure-hosted OpenAI-compatible surface. The
// model name doubles as the deployment name in the URL path and the
// key travels in an api-key header instead of a Bearer token.
type Transport struct {
	config llm.ProviderConfig
	client *http.Client
}

func NewTransport(config llm.ProviderConfig) (llm.Transport, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("azure openai requires a base URL (resource endpoint)")
	}
	if config.Model == "" {
		config.Model = "gpt-4o-mini"
	}
	return &Transport{
		config: config,
		client: &http.Client{Timeout: 90 * time.Second},
	}, nil
}

func (t *Transport) Kind() llm.Kind   { return llm.AzureOpenAI }
func (t *Transport) Multimodal() bool { return false }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (t *Transport) Generate(ctx context.Context, req *api.GenerationRequest) (string, error) {
	body := chatCompletionRequest{
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	return t.send(ctx, body)
}

func (t *Transport) Chat(ctx context.Context, req *api.ChatRequest) (string, error) {
	body := chatCompletionRequest{
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	for _, m := range req.Messages {
		body.Messages = append(body.Messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}
	return t.send(ctx, body)
}

func (t *Transport) send(ctx context.Context, body chatCompletionRequest) (string, error) {
	headers := map[string]string{
		"api-key": t.config.APIKey,
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(t.config.BaseURL, "/"),
		t.config.Model,
		apiVersion,
	)

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
