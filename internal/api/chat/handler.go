package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lexweave/asklaw/internal/domain"
	"github.com/lexweave/asklaw/internal/service"
)

// Handler handles chat API requests
type Handler struct {
	chatService *service.ChatService
}

// NewHandler creates a new chat handler
func NewHandler(chatService *service.ChatService) *Handler {
	return &Handler{chatService: chatService}
}

// RegisterRoutes registers chat routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/:matter_id", h.Chat)
	r.GET("/:matter_id/sessions/:session_id", h.History)
	r.POST("/:matter_id/sessions/:session_id/clear", h.Clear)
}

// Chat handles a chat message
func (h *Handler) Chat(c *gin.Context) {
	matterID := c.Param("matter_id")

	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.chatService.Chat(c.Request.Context(), matterID, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "matter not found"})
		case errors.Is(err, domain.ErrEmptyQuery):
			c.JSON(http.StatusBadRequest, gin.H{"error": "message is empty"})
		case errors.Is(err, domain.ErrConversationBusy):
			c.JSON(http.StatusConflict, gin.H{"error": "conversation is processing another request"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// History returns the message log for a session
func (h *Handler) History(c *gin.Context) {
	sessionID := c.Param("session_id")

	messages, err := h.chatService.History(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": sessionID, "messages": messages})
}

// Clear empties a session's conversation log
func (h *Handler) Clear(c *gin.Context) {
	sessionID := c.Param("session_id")

	if err := h.chatService.Clear(c.Request.Context(), sessionID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": sessionID, "cleared": true})
}
