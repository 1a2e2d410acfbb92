package server

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chalkline/assistant-api/internal/config"
	"github.com/chalkline/assistant-api/internal/orchestrator"
	"github.com/chalkline/assistant-api/internal/server/validator"
	"github.com/chalkline/assistant-api/internal/store/cache"
)

type Server struct {
	router    *gin.Engine
	config    *config.Config
	logger    *zap.Logger
	service   orchestrator.Service
	cache     cache.CacheService
	validator *validator.Validator
}

func New(cfg *config.Config, logger *zap.Logger, service orchestrator.Service, c cache.CacheService) *Server {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	engine.Use(ginzap.RecoveryWithZap(logger, true))

	s := &Server{
		router:    engine,
		config:    cfg,
		logger:    logger,
		service:   service,
		cache:     c,
		validator: validator.New(),
	}

	s.SetupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}
