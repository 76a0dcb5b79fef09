package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/clubhub/internal/app"
	"github.com/lalith-99/clubhub/internal/middleware"
	"go.uber.org/zap"
)

// ChannelHandler lists and creates channels in the workspace's current club.
type ChannelHandler struct {
	logger *zap.Logger
}

func NewChannelHandler(logger *zap.Logger) *ChannelHandler {
	return &ChannelHandler{logger: logger}
}

// Create handles POST /v1/channels
func (h *ChannelHandler) Create(c *gin.Context) {
	var req app.ChannelInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ch, err := middleware.GetWorkspace(c).CreateChannel(req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, ch)
}

// List handles GET /v1/channels
func (h *ChannelHandler) List(c *gin.Context) {
	channels, err := middleware.GetWorkspace(c).Channels()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, channels)
}
