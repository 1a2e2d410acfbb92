package api

// Mode selects which teaching workflow the orchestrator runs.
type Mode string

const (
	ModeExplain Mode = "explain"
	ModeAssist  Mode = "assist"
	ModePlan    Mode = "plan"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// AssistantRequest is the inbound payload for POST /v1/assistant.
// Everything beyond mode and input_text is optional teaching context
// consumed only by the prompt builders.
type AssistantRequest struct {
	Mode      Mode   `json:"mode" binding:"required,oneof=explain assist plan"`
	InputText string `json:"input_text" binding:"required"`
	Language  string `json:"language,omitempty"`
	TenantID  string `json:"tenant_id,omitempty"`

	Grade    string `json:"grade,omitempty"`
	Subject  string `json:"subject,omitempty"`
	Topic    string `json:"topic,omitempty"`
	Context  string `json:"context,omitempty"`
	MediaRef string `json:"media_ref,omitempty"`

	// Free-form classroom constraints, e.g. "no projector", "35 students".
	Constraints []string `json:"constraints,omitempty"`
}

// GenerationRequest is the single-prompt capability of the provider client.
type GenerationRequest struct {
	Prompt      string  `json:"prompt" binding:"required"`
	Language    string  `json:"language,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty" binding:"omitempty,gt=0"`
	Temperature float64 `json:"temperature,omitempty" binding:"omitempty,gte=0,lte=2"`

	// MediaRef may be a local path, a remote URL or a data URI. Providers
	// without multimodal support ignore it.
	MediaRef string `json:"media_ref,omitempty"`
}

// ChatRequest is the multi-turn capability of the provider client.
// Validation additionally requires at least one user message; see
// the struct-level rule registered in internal/server/validator.
type ChatRequest struct {
	Messages    []ChatMessage `json:"messages" binding:"required,min=1,dive"`
	MaxTokens   int           `json:"max_tokens,omitempty" binding:"omitempty,gt=0"`
	Temperature float64       `json:"temperature,omitempty" binding:"omitempty,gte=0,lte=2"`
	TenantID    string        `json:"tenant_id,omitempty"`
}

type ChatMessage struct {
	Role    Role   `json:"role" binding:"required,oneof=system user assistant"`
	Content string `json:"content" binding:"required"`
}

// HasUserMessage reports whether at least one user turn is present.
// A conversation of only system/assistant turns is a caller error.
func (r *ChatRequest) HasUserMessage() bool {
	for _, m := range r.Messages {
		if m.Role == RoleUser {
			return true
		}
	}
	return false
}
