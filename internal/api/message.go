package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/clubhub/internal/middleware"
	"go.uber.org/zap"
)

type MessageHandler struct {
	logger *zap.Logger
}

func NewMessageHandler(logger *zap.Logger) *MessageHandler {
	return &MessageHandler{logger: logger}
}

// createMessageRequest posts to ChannelID, or to the active channel when
// it is empty.
type createMessageRequest struct {
	ChannelID string `json:"channel_id"`
	Content   string `json:"content" binding:"required"`
}

// Create handles POST /v1/messages
func (h *MessageHandler) Create(c *gin.Context) {
	var req createMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	msg, err := middleware.GetWorkspace(c).SendMessage(req.ChannelID, req.Content)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// List handles GET /v1/messages: the active channel, oldest first.
func (h *MessageHandler) List(c *gin.Context) {
	messages, err := middleware.GetWorkspace(c).ChannelMessages()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// TogglePin handles POST /v1/messages/:id/pin
func (h *MessageHandler) TogglePin(c *gin.Context) {
	msg, err := middleware.GetWorkspace(c).TogglePin(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

// MarkRead handles POST /v1/messages/:id/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	msg, err := middleware.GetWorkspace(c).MarkRead(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}
