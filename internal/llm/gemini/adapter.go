package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/chalkline/assistant-api/internal/httpclient"
	"github.com/chalkline/assistant-api/internal/llm"
	"github.com/chalkline/assistant-api/internal/llm/processing"
	"github.com/chalkline/assistant-api/pkg/api"
)

func init() {
	llm.Register(llm.Gemini, NewTransport)
}

type Transport struct {
	config llm.ProviderConfig
	client *http.Client
}

func NewTransport(config llm.ProviderConfig) (llm.Transport, error) {
	if config.BaseURL == "" {
		config.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if config.Model == "" {
		config.Model = "gemini-2.0-flash"
	}
	return &Transport{
		config: config,
		client: &http.Client{Timeout: 90 * time.Second},
	}, nil
}

func (t *Transport) Kind() llm.Kind   { return llm.Gemini }
func (t *Transport) Multimodal() bool { return true }

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"system_instruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

func (t *Transport) Generate(ctx context.Context, req *api.GenerationRequest) (string, error) {
	parts := []part{{Text: req.Prompt}}

	if req.MediaRef != "" {
		// The upload path wants a local file; remote refs are staged to
		// a temp file first and the staging file is removed regardless
		// of how this call exits.
		staged, err := processing.StageMedia(ctx, req.MediaRef)
		if err != nil {
			return "", fmt.Errorf("failed to stage media ref: %w", err)
		}
		defer staged.Release()

		raw, err := os.ReadFile(staged.Path)
		if err != nil {
			return "", fmt.Errorf("failed to read staged media: %w", err)
		}

		parts = append(parts, part{InlineData: &inlineData{
			MimeType: staged.MediaType,
			Data:     base64.StdEncoding.EncodeToString(raw),
		}})
	}

	body := generateRequest{
		Contents:         []content{{Role: "user", Parts: parts}},
		GenerationConfig: genConfig(req.MaxTokens, req.Temperature),
	}

	return t.send(ctx, body)
}

// Chat reshapes the turn list: system turns become the top-level system
// instruction and assistant turns map to the "model" role.
func (t *Transport) Chat(ctx context.Context, req *api.ChatRequest) (string, error) {
	body := generateRequest{
		GenerationConfig: genConfig(req.MaxTokens, req.Temperature),
	}

	for _, m := range req.Messages {
		switch m.Role {
		case api.RoleSystem:
			if body.SystemInstruction == nil {
				body.SystemInstruction = &content{}
			}
			body.SystemInstruction.Parts = append(body.SystemInstruction.Parts, part{Text: m.Content})
		case api.RoleAssistant:
			body.Contents = append(body.Contents, content{Role: "model", Parts: []part{{Text: m.Content}}})
		default:
			body.Contents = append(body.Contents, content{Role: "user", Parts: []part{{Text: m.Content}}})
		}
	}

	return t.send(ctx, body)
}

func (t *Transport) send(ctx context.Context, body generateRequest) (string, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(t.config.BaseURL, "/"),
		t.config.Model,
		t.config.APIKey,
	)

	var resp generateResponse
	if err := httpclient.SendRequest(ctx, t.client, "POST", url, nil, body, &resp); err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 {
		return "", llm.ErrEmptyResponse
	}

	var text strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}

	if strings.TrimSpace(text.String()) == "" {
		return "", llm.ErrEmptyResponse
	}

	return text.String(), nil
}

func genConfig(maxTokens int, temperature float64) *generationConfig {
	if maxTokens == 0 && temperature == 0 {
		return nil
	}
	return &generationConfig{MaxOutputTokens: maxTokens, Temperature: temperature}
}
