package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/chalkline/assistant-api/internal/orchestrator"
	"github.com/chalkline/assistant-api/internal/server/validator"
	"github.com/chalkline/assistant-api/pkg/api"
)

type AssistantHandler struct {
	service   orchestrator.Service
	validator *validator.Validator
}

func NewAssistantHandler(service orchestrator.Service, v *validator.Validator) *AssistantHandler {
	return &AssistantHandler{
		service:   service,
		validator: v,
	}
}

// Process handles POST /v1/assistant.
func (h *AssistantHandler) Process(c *gin.Context) {
	var req api.AssistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(h.validator.ParseError(err)))
		return
	}

	resp, err := h.service.ProcessRequest(c.Request.Context(), &req)
	if err != nil {
		// Only a caller contract violation reaches here; everything
		// environmental was already degraded to a usable response.
		_ = c.Error(api.BadRequestError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, resp)
}
