package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/chalkline/assistant-api/internal/httpclient"
	"github.com/chalkline/assistant-api/internal/llm"
	"github.com/chalkline/assistant-api/internal/llm/processing"
	"github.com/chalkline/assistant-api/pkg/api"
)

func init() {
	llm.Register(llm.OpenAI, NewTransport)
}

type Transport struct {
	config llm.ProviderConfig
	client *http.Client
}

func NewTransport(config llm.ProviderConfig) (llm.Transport, error) {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.openai.com/v1"
	}
	if config.Model == "" {
		config.Model = "gpt-4o-mini"
	}
	return &Transport{
		config: config,
		client: &http.Client{Timeout: 90 * time.Second},
	}, nil
}

func (t *Transport) Kind() llm.Kind   { return llm.OpenAI }
func (t *Transport) Multimodal() bool { return true }

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"` // string or []contentPart
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
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
			// Pointer so a JSON null is distinguishable from "".
			Content *string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (t *Transport) Generate(ctx context.Context, req *api.GenerationRequest) (string, error) {
	content, err := userContent(ctx, req.Prompt, req.MediaRef)
	if err != nil {
		return "", err
	}

	body := chatCompletionRequest{
		Model:       t.config.Model,
		Messages:    []chatMessage{{Role: "user", Content: content}},
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
	headers := map[string]string{
		"Authorization": "Bearer " + t.config.APIKey,
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

// userContent builds the user turn. Remote and data-URI refs go through
// as image_url parts; local paths are inlined as data URIs first.
func userContent(ctx context.Context, prompt, mediaRef string) (any, error) {
	if mediaRef == "" {
		return prompt, nil
	}

	url := mediaRef
	if !strings.HasPrefix(mediaRef, "http://") && !strings.HasPrefix(mediaRef, "https://") && !strings.HasPrefix(mediaRef, "data:") {
		img, err := processing.EncodeInline(ctx, mediaRef)
		if err != nil {
			return nil, fmt.Errorf("failed to inline media ref: %w", err)
		}
		url = fmt.Sprintf("data:%s;base64,%s", img.MediaType, img.Data)
	}

	return []contentPart{
		{Type: "text", Text: prompt},
		{Type: "image_url", ImageURL: &imageURL{URL: url}},
	}, nil
}
