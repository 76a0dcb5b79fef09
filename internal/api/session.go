package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/clubhub/internal/app"
	"github.com/lalith-99/clubhub/internal/middleware"
	"go.uber.org/zap"
)

type SessionHandler struct {
	logger *zap.Logger
}

func NewSessionHandler(logger *zap.Logger) *SessionHandler {
	return &SessionHandler{logger: logger}
}

// List handles GET /v1/sessions
func (h *SessionHandler) List(c *gin.Context) {
	sessions, err := middleware.GetWorkspace(c).ClubSessions()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// Create handles POST /v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	var req app.SessionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	sess, err := middleware.GetWorkspace(c).CreateSession(req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

// ToggleJoin handles POST /v1/sessions/:id/join. Calling it again leaves.
func (h *SessionHandler) ToggleJoin(c *gin.Context) {
	sess, err := middleware.GetWorkspace(c).ToggleJoin(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}
