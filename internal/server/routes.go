package server

import (
	"github.com/chalkline/assistant-api/internal/server/middleware"
	v1 "github.com/chalkline/assistant-api/internal/server/v1"
)

func (s *Server) SetupRoutes() {
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.Tracing("assistant-api"))
	s.router.Use(middleware.ErrorHandler(s.logger))

	healthHandler := v1.NewHealthHandler()
	s.router.GET("/health", healthHandler.Health)

	limiter := middleware.NewRateLimiter(s.config.RateLimit.RequestsPerSecond, s.config.RateLimit.Burst, s.logger)

	api := s.router.Group("/v1")
	api.Use(middleware.Auth(s.config.Server.APIKeys))
	api.Use(limiter.Middleware())
	{
		assistantHandler := v1.NewAssistantHandler(s.service, s.validator)
		api.POST("/assistant", assistantHandler.Process)

		chatHandler := v1.NewChatHandler(s.service, s.validator)
		api.POST("/chat", chatHandler.Create)

		modesHandler := v1.NewModesHandler(s.service, s.cache)
		api.GET("/modes", modesHandler.List)
	}
}
