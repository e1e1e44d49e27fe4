package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lexweave/asklaw/internal/api"
	"github.com/lexweave/asklaw/internal/cache"
	"github.com/lexweave/asklaw/internal/config"
	"github.com/lexweave/asklaw/internal/llm"
	"github.com/lexweave/asklaw/internal/repository"
	"github.com/lexweave/asklaw/internal/service"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database (matters, documents, sessions, cache, analytics)
	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	matterRepo := repository.NewMatterRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// Initialize response cache with the configured durable backend
	var cacheStore cache.Store
	switch cfg.Cache.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr})
		cacheStore = cache.NewRedisStore(client)
	case "sqlite":
		cacheStore = repository.NewCacheRepository(db)
	default:
		// memory-only
	}
	responseCache := cache.New(cacheStore, logger)

	// Initialize LLM clients
	modelClient := llm.NewOpenAIClient(cfg.LLM.BaseURL, cfg.LLM.APIKey,
		cfg.LLM.SuggestionModel, logger)

	// Initialize services
	analyticsService := service.NewAnalyticsService(analyticsRepo, logger)

	chatService := service.NewChatService(
		cfg,
		matterRepo,
		sessionRepo,
		responseCache,
		modelClient,
		modelClient,
		analyticsService,
		logger,
	)

	adminService := service.NewAdminService(
		matterRepo,
		documentRepo,
		sessionRepo,
		responseCache,
		analyticsService,
	)

	// Setup router
	router := api.SetupRouter(chatService, adminService, api.RouterConfig{
		APIKey:            cfg.Admin.APIKey,
		AllowOrigins:      []string{"*"},
		RateLimitEnabled:  cfg.RateLimit.Enabled,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting asklaw server",
			zap.String("address", cfg.Address()),
			zap.String("base_url", cfg.Server.BaseURL),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	// Drain detached suggestion tasks
	chatService.Close()

	logger.Info("Server exited")
}
