package api

import (
	"github.com/gin-gonic/gin"
	"github.com/lalith-99/clubhub/internal/app"
	"github.com/lalith-99/clubhub/internal/middleware"
	"github.com/lalith-99/clubhub/internal/realtime"
	"go.uber.org/zap"
)

type RealtimeHandler struct {
	hub    *realtime.Hub
	logger *zap.Logger
}

func NewRealtimeHandler(hub *realtime.Hub, logger *zap.Logger) *RealtimeHandler {
	return &RealtimeHandler{hub: hub, logger: logger}
}

// Connect handles GET /v1/ws?token=... The connection follows the
// workspace: a club switch changes which events arrive, and a logout
// stops them.
func (h *RealtimeHandler) Connect(c *gin.Context) {
	w := middleware.GetWorkspace(c)
	if w.UserID() == "" {
		respondError(c, h.logger, app.ErrUnauthenticated)
		return
	}

	scope := func() (string, string) {
		userID := w.UserID()
		if userID == "" {
			return "", ""
		}
		return userID, w.View().CurrentClubID
	}
	if err := h.hub.Serve(c.Writer, c.Request, w.ID(), scope); err != nil {
		h.logger.Debug("websocket upgrade failed", zap.String("workspace_id", w.ID()), zap.Error(err))
	}
}
