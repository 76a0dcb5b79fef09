package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/clubhub/internal/app"
	"github.com/lalith-99/clubhub/internal/chatbot"
	"github.com/lalith-99/clubhub/internal/middleware"
	"go.uber.org/zap"
)

// ChatbotHandler gives each workspace its own assistant conversation.
type ChatbotHandler struct {
	bot    *chatbot.Bot
	logger *zap.Logger
}

func NewChatbotHandler(bot *chatbot.Bot, logger *zap.Logger) *ChatbotHandler {
	return &ChatbotHandler{bot: bot, logger: logger}
}

type askRequest struct {
	Prompt string `json:"prompt"`
}

// Ask handles POST /v1/chatbot. Model failures still answer 200: the reply
// carries the apology and a banner.
func (h *ChatbotHandler) Ask(c *gin.Context) {
	w := middleware.GetWorkspace(c)
	if w.UserID() == "" {
		respondError(c, h.logger, app.ErrUnauthenticated)
		return
	}
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, h.bot.Ask(c.Request.Context(), w.ID(), req.Prompt))
}

// Transcript handles GET /v1/chatbot
func (h *ChatbotHandler) Transcript(c *gin.Context) {
	c.JSON(http.StatusOK, h.bot.Transcript(middleware.GetWorkspace(c).ID()))
}

// Clear handles DELETE /v1/chatbot
func (h *ChatbotHandler) Clear(c *gin.Context) {
	h.bot.Clear(middleware.GetWorkspace(c).ID())
	c.Status(http.StatusNoContent)
}
