package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/chalkline/assistant-api/internal/orchestrator"
	"github.com/chalkline/assistant-api/internal/server/validator"
	"github.com/chalkline/assistant-api/pkg/api"
)

type ChatHandler struct {
	service   orchestrator.Service
	validator *validator.Validator
}

func NewChatHandler(service orchestrator.Service, v *validator.Validator) *ChatHandler {
	return &ChatHandler{
		service:   service,
		validator: v,
	}
}

// Create handles POST /v1/chat. Validation (including the at-least-one
// user-message rule) rejects bad conversations before the provider
// client ever sees them.
func (h *ChatHandler) Create(c *gin.Context) {
	var req api.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(h.validator.ParseError(err)))
		return
	}

	content := h.service.Chat(c.Request.Context(), &req)

	c.JSON(http.StatusOK, api.ChatResponse{Content: content})
}
