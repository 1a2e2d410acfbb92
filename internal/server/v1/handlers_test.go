package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/chalkline/assistant-api/internal/server/middleware"
	v1 "github.com/chalkline/assistant-api/internal/server/v1"
	"github.com/chalkline/assistant-api/internal/server/validator"
	"github.com/chalkline/assistant-api/internal/store/cache"
	"github.com/chalkline/assistant-api/pkg/api"
)

type fakeService struct {
	resp      *api.AssistantResponse
	err       error
	chatReply string
	modeCalls int
}

func (f *fakeService) ProcessRequest(context.Context, *api.AssistantRequest) (*api.AssistantResponse, error) {
	return f.resp, f.err
}

func (f *fakeService) Chat(context.Context, *api.ChatRequest) string {
	return f.chatReply
}

func (f *fakeService) Modes() []api.ModeInfo {
	f.modeCalls++
	return []api.ModeInfo{
		{Mode: api.ModeExplain, Description: "explain things", Fields: []string{"simple_explanation"}},
	}
}

func setupRouter(svc *fakeService, c cache.CacheService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middleware.ErrorHandler(zap.NewNop()))

	val := validator.New()
	engine.POST("/v1/assistant", v1.NewAssistantHandler(svc, val).Process)
	engine.POST("/v1/chat", v1.NewChatHandler(svc, val).Create)
	engine.GET("/v1/modes", v1.NewModesHandler(svc, c).List)
	return engine
}

func postJSON(engine *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	return w
}

func TestAssistantSuccess(t *testing.T) {
	svc := &fakeService{
		resp: &api.AssistantResponse{
			Content:    "📘 Simple explanation\nPlants make sugar.",
			Structured: map[string]any{"simple_explanation": "Plants make sugar."},
			Sections: []api.Section{
				{ID: "s1", Title: "Simple explanation", Type: api.SectionExplanation, Content: "Plants make sugar."},
			},
			Suggestions: []string{"Give me a quick quiz on this topic"},
		},
	}
	engine := setupRouter(svc, nil)

	w := postJSON(engine, "/v1/assistant", `{"mode": "explain", "input_text": "photosynthesis"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp api.AssistantResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Sections, 1)
	assert.Equal(t, "Plants make sugar.", resp.Structured["simple_explanation"])
}

func TestAssistantValidation(t *testing.T) {
	engine := setupRouter(&fakeService{}, nil)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"Missing input text", `{"mode": "explain"}`, "input_text"},
		{"Bad mode", `{"mode": "translate", "input_text": "x"}`, "mode"},
		{"Missing mode", `{"input_text": "x"}`, "mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(engine, "/v1/assistant", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var problem struct {
				Title  string            `json:"title"`
				Errors map[string]string `json:"errors"`
			}
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
			assert.Equal(t, "Validation Error", problem.Title)
			assert.Contains(t, problem.Errors, tt.field)
		})
	}
}

func TestAssistantMalformedJSON(t *testing.T) {
	engine := setupRouter(&fakeService{}, nil)
	w := postJSON(engine, "/v1/assistant", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatSuccess(t *testing.T) {
	engine := setupRouter(&fakeService{chatReply: "hello teacher"}, nil)

	w := postJSON(engine, "/v1/chat", `{"messages": [{"role": "user", "content": "hi"}]}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp api.ChatResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "hello teacher", resp.Content)
}

func TestChatRequiresUserMessage(t *testing.T) {
	engine := setupRouter(&fakeService{chatReply: "x"}, nil)

	w := postJSON(engine, "/v1/chat", `{"messages": [{"role": "system", "content": "be nice"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var problem struct {
		Errors map[string]string `json:"errors"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Contains(t, problem.Errors["messages"], "user")
}

func TestChatRejectsBadRole(t *testing.T) {
	engine := setupRouter(&fakeService{chatReply: "x"}, nil)

	w := postJSON(engine, "/v1/chat", `{"messages": [{"role": "robot", "content": "hi"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestModesListAndCache(t *testing.T) {
	svc := &fakeService{}
	engine := setupRouter(svc, cache.NewMemoryCache())

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/v1/modes", nil)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		var modes []api.ModeInfo
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &modes))
		assert.Len(t, modes, 1)
		assert.Equal(t, api.ModeExplain, modes[0].Mode)
	}

	// Second hit must come from the cache.
	assert.Equal(t, 1, svc.modeCalls)
}
