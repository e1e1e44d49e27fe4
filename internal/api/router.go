package api

import (
	"github.com/gin-gonic/gin"

	"github.com/lexweave/asklaw/internal/api/admin"
	"github.com/lexweave/asklaw/internal/api/chat"
	"github.com/lexweave/asklaw/internal/api/middleware"
	"github.com/lexweave/asklaw/internal/service"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	APIKey            string
	AllowOrigins      []string
	RateLimitEnabled  bool
	RequestsPerSecond float64
	Burst             int
}

// SetupRouter sets up the Gin router
func SetupRouter(
	chatService *service.ChatService,
	adminService *service.AdminService,
	cfg RouterConfig,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS middleware
	r.Use(middleware.CORS(cfg.AllowOrigins))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Chat API (public, per matter)
	chatHandler := chat.NewHandler(chatService)
	chatGroup := r.Group("/api/chat")
	if cfg.RateLimitEnabled {
		chatGroup.Use(middleware.RateLimit(cfg.RequestsPerSecond, cfg.Burst))
	}
	chatHandler.RegisterRoutes(chatGroup)

	// Admin API (requires API key)
	adminHandler := admin.NewHandler(adminService)
	adminGroup := r.Group("/api/admin")
	adminGroup.Use(middleware.Auth(cfg.APIKey))
	adminHandler.RegisterRoutes(adminGroup)

	return r
}
