package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/chalkline/assistant-api/internal/orchestrator"
	"github.com/chalkline/assistant-api/internal/store/cache"
	"github.com/chalkline/assistant-api/pkg/api"
)

const modesCacheKey = "catalog:modes"

type ModesHandler struct {
	service orchestrator.Service
	cache   cache.CacheService
}

func NewModesHandler(service orchestrator.Service, c cache.CacheService) *ModesHandler {
	return &ModesHandler{service: service, cache: c}
}

// List handles GET /v1/modes.
func (h *ModesHandler) List(c *gin.Context) {
	var modes []api.ModeInfo

	if h.cache != nil {
		if err := h.cache.Get(c.Request.Context(), modesCacheKey, &modes); err == nil {
			c.JSON(http.StatusOK, modes)
			return
		}
	}

	modes = h.service.Modes()

	if h.cache != nil {
		_ = h.cache.Set(c.Request.Context(), modesCacheKey, modes, time.Hour)
	}

	c.JSON(http.StatusOK, modes)
}
