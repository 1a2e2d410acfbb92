package orchestrator

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/chalkline/assistant-api/internal/analytics"
	"github.com/chalkline/assistant-api/internal/config"
	"github.com/chalkline/assistant-api/internal/store/model"
	"github.com/chalkline/assistant-api/pkg/api"
)

type fakeGenerator struct {
	reply      string
	lastPrompt string
	lastChat   *api.ChatRequest
}

func (f *fakeGenerator) Generate(_ context.Context, req *api.GenerationRequest) string {
	f.lastPrompt = req.Prompt
	return f.reply
}

func (f *fakeGenerator) Chat(_ context.Context, req *api.ChatRequest) string {
	f.lastChat = req
	return f.reply
}

func (f *fakeGenerator) DemoMode() bool   { return false }
func (f *fakeGenerator) Provider() string { return "openai" }
func (f *fakeGenerator) Model() string    { return "gpt-4o-mini" }

type captureIngestor struct {
	logs []*model.RequestLog
}

func (c *captureIngestor) Log(l *model.RequestLog) { c.logs = append(c.logs, l) }
func (c *captureIngestor) Start(context.Context)   {}
func (c *captureIngestor) Stop()                   {}

func newTestService(gen *fakeGenerator, ing analytics.Ingestor) *service {
	s := NewService(zap.NewNop(), nil, config.ProviderEnv{}, ing).(*service)
	s.newClient = func(context.Context, string) generator { return gen }
	return s
}

func TestProcessRequestUnknownMode(t *testing.T) {
	s := newTestService(&fakeGenerator{}, nil)
	_, err := s.ProcessRequest(context.Background(), &api.AssistantRequest{Mode: "translate", InputText: "x"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestProcessRequestStructuredAnswer(t *testing.T) {
	gen := &fakeGenerator{reply: `{"simple_explanation": "Plants make sugar from light.", "comprehension_check": "What do plants need?"}`}
	ing := &captureIngestor{}
	s := newTestService(gen, ing)

	resp, err := s.ProcessRequest(context.Background(), &api.AssistantRequest{
		Mode:      api.ModeExplain,
		InputText: "photosynthesis",
		TenantID:  "t-1",
	})
	assert.NoError(t, err)

	assert.Len(t, resp.Sections, 2)
	assert.Equal(t, "Simple explanation", resp.Sections[0].Title)
	assert.Contains(t, resp.Content, "📘 Simple explanation")
	assert.Contains(t, resp.Content, "Plants make sugar from light.")
	assert.Equal(t, "Plants make sugar from light.", resp.Structured["simple_explanation"])
	assert.NotEmpty(t, resp.Suggestions)

	assert.Len(t, ing.logs, 1)
	assert.Equal(t, "t-1", ing.logs[0].TenantID)
	assert.Equal(t, "explain", ing.logs[0].Mode)
	assert.Equal(t, "openai", ing.logs[0].Provider)
	assert.Equal(t, 2, ing.logs[0].SectionCnt)
	assert.False(t, ing.logs[0].DemoMode)
}

func TestProcessRequestRawFallback(t *testing.T) {
	gen := &fakeGenerator{reply: "I could not produce JSON but here is prose about fractions."}
	s := newTestService(gen, nil)

	resp, err := s.ProcessRequest(context.Background(), &api.AssistantRequest{
		Mode:      api.ModeAssist,
		InputText: "students are restless",
	})
	assert.NoError(t, err)

	assert.Equal(t, gen.reply, resp.Content)
	assert.Equal(t, gen.reply, resp.Structured[rawResponseKey])
	assert.Empty(t, resp.Sections)
}

func TestProcessRequestErrorStringFallsThrough(t *testing.T) {
	// The client never errors; its error-prefixed string must survive to
	// the teacher untouched when nothing can be extracted from it.
	gen := &fakeGenerator{reply: "Error generating response: the request timed out"}
	s := newTestService(gen, nil)

	resp, err := s.ProcessRequest(context.Background(), &api.AssistantRequest{
		Mode:      api.ModePlan,
		InputText: "a lesson on fractions",
	})
	assert.NoError(t, err)
	assert.Equal(t, gen.reply, resp.Content)
	assert.Empty(t, resp.Sections)
}

func TestMathInputRoutesToSolvingPrompt(t *testing.T) {
	gen := &fakeGenerator{reply: `{"final_answer": "x = 2"}`}
	s := newTestService(gen, nil)

	_, err := s.ProcessRequest(context.Background(), &api.AssistantRequest{
		Mode:      api.ModeExplain,
		InputText: "solve 2x + 3 = 7",
	})
	assert.NoError(t, err)
	assert.Contains(t, gen.lastPrompt, "solution_steps")
	assert.Contains(t, gen.lastPrompt, "step by step")

	_, err = s.ProcessRequest(context.Background(), &api.AssistantRequest{
		Mode:      api.ModeExplain,
		InputText: "photosynthesis",
	})
	assert.NoError(t, err)
	assert.Contains(t, gen.lastPrompt, "simple_explanation")
}

func TestChatInjectsSystemTurn(t *testing.T) {
	gen := &fakeGenerator{reply: "hello"}
	s := newTestService(gen, nil)

	s.Chat(context.Background(), &api.ChatRequest{
		Messages: []api.ChatMessage{{Role: "user", Content: "hi"}},
	})
	assert.Len(t, gen.lastChat.Messages, 2)
	assert.Equal(t, api.RoleSystem, gen.lastChat.Messages[0].Role)

	custom := "You are a pirate."
	s.Chat(context.Background(), &api.ChatRequest{
		Messages: []api.ChatMessage{
			{Role: "system", Content: custom},
			{Role: "user", Content: "hi"},
		},
	})
	assert.Len(t, gen.lastChat.Messages, 2)
	assert.Equal(t, custom, gen.lastChat.Messages[0].Content)
}

func TestModesCatalog(t *testing.T) {
	s := newTestService(&fakeGenerator{}, nil)
	modes := s.Modes()

	assert.Len(t, modes, 3)
	for _, m := range modes {
		assert.NotEmpty(t, m.Description, "mode %s", m.Mode)
		assert.NotEmpty(t, m.Fields, "mode %s", m.Mode)
		assert.NotEmpty(t, m.Suggestions, "mode %s", m.Mode)
	}
	assert.Equal(t, api.ModeExplain, modes[0].Mode)
	assert.True(t, strings.Contains(strings.Join(modes[0].Fields, ","), "simple_explanation"))
}
