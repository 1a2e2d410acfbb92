package anthropic

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

const apiVersion = "2023-06-01"

func init() {
	llm.Register(llm.Anthropic, NewTransport)
}

type Transport struct {
	config llm.ProviderConfig
	client *http.Client
}

func NewTransport(config llm.ProviderConfig) (llm.Transport, error) {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.anthropic.com/v1"
	}
	if config.Model == "" {
		config.Model = "claude-3-5-haiku-latest"
	}
	return &Transport{
		config: config,
		client: &http.Client{Timeout: 90 * time.Second},
	}, nil
}

func (t *Transport) Kind() llm.Kind   { return llm.Anthropic }
func (t *Transport) Multimodal() bool { return true }

type message struct {
	Role    string `json:"role"`
	Content any    `json:"content"` // string or []contentBlock
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`       // "base64"
	MediaType string `json:"media_type"` // e.g. "image/jpeg"
	Data      string `json:"data"`
}

type messagesRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	System      string    `json:"system,omitempty"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature,omitempty"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func (t *Transport) Generate(ctx context.Context, req *api.GenerationRequest) (string, error) {
	var blocks []contentBlock

	if req.MediaRef != "" {
		img, err := processing.EncodeInline(ctx, req.MediaRef)
		if err != nil {
			return "", fmt.Errorf("failed to inline media ref: %w", err)
		}
		blocks = append(blocks, contentBlock{
			Type: "image",
			Source: &imageSource{
				Type:      "base64",
				MediaType: img.MediaType,
				Data:      img.Data,
			},
		})
	}

	blocks = append(blocks, contentBlock{Type: "text", Text: req.Prompt})

	body := messagesRequest{
		Model:       t.config.Model,
		Messages:    []message{{Role: "user", Content: blocks}},
		MaxTokens:   maxTokens(req.MaxTokens),
		Temperature: req.Temperature,
	}

	return t.send(ctx, body)
}

// Chat reshapes the turn list for the messages API: system turns move
// to the top-level system field, everything else stays in order.
func (t *Transport) Chat(ctx context.Context, req *api.ChatRequest) (string, error) {
	body := messagesRequest{
		Model:       t.config.Model,
		MaxTokens:   maxTokens(req.MaxTokens),
		Temperature: req.Temperature,
	}

	for _, m := range req.Messages {
		if m.Role == api.RoleSystem {
			if body.System != "" {
				body.System += "\n"
			}
			body.System += m.Content
			continue
		}
		body.Messages = append(body.Messages, message{Role: string(m.Role), Content: m.Content})
	}

	return t.send(ctx, body)
}

func (t *Transport) send(ctx context.Context, body messagesRequest) (string, error) {
	headers := map[string]string{
		"x-api-key":         t.config.APIKey,
		"anthropic-version": apiVersion,
	}

	url := fmt.Sprintf("%s/messages", strings.TrimRight(t.config.BaseURL, "/"))

	var resp messagesResponse
	if err := httpclient.SendRequest(ctx, t.client, "POST", url, headers, body, &resp); err != nil {
		return "", err
	}

	var text strings.Builder
	for _, c := range resp.Content {
		if c.Type == "text" {
			text.WriteString(c.Text)
		}
	}

	if strings.TrimSpace(text.String()) == "" {
		return "", llm.ErrEmptyResponse
	}

	return text.String(), nil
}

func maxTokens(requested int) int {
	if requested > 0 {
		return requested
	}
	// The messages API requires max_tokens.
	return 4096
}
