package api

// SectionType classifies a section for the step-by-step tutor UI.
type SectionType string

const (
	SectionExplanation SectionType = "explanation"
	SectionActivity    SectionType = "activity"
	SectionMnemonic    SectionType = "mnemonic"
	SectionAssessment  SectionType = "assessment"
	SectionScript      SectionType = "script"
	SectionExample     SectionType = "example"
	SectionWarning     SectionType = "warning"
	SectionDiscussion  SectionType = "discussion"
	SectionTip         SectionType = "tip"
)

// Section is one ordered, typed slice of a structured result. It is a
// pure view over the parsed model output and is never persisted.
type Section struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Type      SectionType `json:"type"`
	Content   string      `json:"content"`
	Narration string      `json:"narration"`
}

// AssistantResponse is the orchestrator's result for one request.
type AssistantResponse struct {
	Content     string         `json:"content"`
	Structured  map[string]any `json:"structured"`
	Sections    []Section      `json:"sections"`
	Suggestions []string       `json:"suggestions"`
}

// ChatResponse wraps the provider client's chat output for the HTTP surface.
type ChatResponse struct {
	Content string `json:"content"`
}

// ModeInfo describes one teaching mode for GET /v1/modes.
type ModeInfo struct {
	Mode        Mode     `json:"mode"`
	Description string   `json:"description"`
	Fields      []string `json:"fields"`
	Suggestions []string `json:"suggestions"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
