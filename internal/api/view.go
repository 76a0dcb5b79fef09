package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/clubhub/internal/app"
	"github.com/lalith-99/clubhub/internal/middleware"
	"go.uber.org/zap"
)

// ViewHandler serves a workspace's navigation: which club, channel and
// overlays it has open.
type ViewHandler struct {
	logger *zap.Logger
}

func NewViewHandler(logger *zap.Logger) *ViewHandler {
	return &ViewHandler{logger: logger}
}

// Get handles GET /v1/view
func (h *ViewHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.GetWorkspace(c).View())
}

type switchClubRequest struct {
	ClubID string `json:"club_id" binding:"required"`
}

// SwitchClub handles POST /v1/view/club
func (h *ViewHandler) SwitchClub(c *gin.Context) {
	var req switchClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	view, err := middleware.GetWorkspace(c).SwitchClub(req.ClubID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type selectChannelRequest struct {
	ChannelID string `json:"channel_id"`
}

// SelectChannel handles POST /v1/view/channel. An unknown or empty id
// falls back to the club's first channel.
func (h *ViewHandler) SelectChannel(c *gin.Context) {
	var req selectChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	view, err := middleware.GetWorkspace(c).SelectChannel(req.ChannelID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// OpenOverlay handles POST /v1/view/overlays/:kind
func (h *ViewHandler) OpenOverlay(c *gin.Context) {
	h.overlay(c, (*app.Workspace).OpenOverlay)
}

// CloseOverlay handles DELETE /v1/view/overlays/:kind
func (h *ViewHandler) CloseOverlay(c *gin.Context) {
	h.overlay(c, (*app.Workspace).CloseOverlay)
}

func (h *ViewHandler) overlay(c *gin.Context, apply func(*app.Workspace, app.Overlay) error) {
	kind, ok := app.ParseOverlay(c.Param("kind"))
	if !ok {
		badRequest(c, fmt.Errorf("unknown overlay %q", c.Param("kind")))
		return
	}
	w := middleware.GetWorkspace(c)
	if err := apply(w, kind); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, w.View())
}
