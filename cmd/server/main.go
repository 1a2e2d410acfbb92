package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/chalkline/assistant-api/cmd"
	"github.com/chalkline/assistant-api/internal/analytics"
	"github.com/chalkline/assistant-api/internal/config"
	"github.com/chalkline/assistant-api/internal/orchestrator"
	"github.com/chalkline/assistant-api/internal/platform/logger"
	"github.com/chalkline/assistant-api/internal/platform/otel"
	"github.com/chalkline/assistant-api/internal/server"
	"github.com/chalkline/assistant-api/internal/store"
	"github.com/chalkline/assistant-api/internal/store/cache"
	"github.com/chalkline/assistant-api/internal/store/sqlite"

	// Import adapters to trigger init() registration.
	_ "github.com/chalkline/assistant-api/internal/llm/anthropic"
	_ "github.com/chalkline/assistant-api/internal/llm/azure"
	_ "github.com/chalkline/assistant-api/internal/llm/gemini"
	_ "github.com/chalkline/assistant-api/internal/llm/openai"
	_ "github.com/chalkline/assistant-api/internal/llm/proxy"
)

func main() {
	cmd.CheckForUpdates()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Initialize(logger.DefaultConfig())
		logger.Fatal("failed to load config", zap.Error(err))
	}

	logger.Initialize(logger.DefaultConfig())
	defer logger.Sync()
	log := logger.Get()

	shutdownTracer, err := otel.InitTracer("assistant-api", cfg.Server.Env, cmd.AppVersion, log, os.Stdout)
	if err != nil {
		log.Fatal("failed to initialize tracer", zap.Error(err))
	}

	repo, err := sqlite.NewSQLiteStorage(cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer repo.Close()

	var cacheService cache.CacheService
	if cfg.Redis.Enabled {
		rc, err := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("redis unavailable, falling back to in-memory cache", zap.Error(err))
			cacheService = cache.NewMemoryCache()
		} else {
			cacheService = rc
		}
	} else {
		cacheService = cache.NewMemoryCache()
	}

	settings := store.NewCachedSettings(repo.Settings(), cacheService, 30*time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ingestor := analytics.NewIngestor(log, repo)
	ingestor.Start(ctx)
	defer ingestor.Stop()

	service := orchestrator.NewService(log, settings, cfg.Provider, ingestor)

	srv := server.New(cfg, log, service, cacheService)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: srv.Handler(),
	}

	go func() {
		log.Info("starting server", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.Env))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error("tracer shutdown failed", zap.Error(err))
	}
}
