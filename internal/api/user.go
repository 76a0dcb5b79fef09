package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/clubhub/internal/app"
	"github.com/lalith-99/clubhub/internal/middleware"
	"go.uber.org/zap"
)

type UserHandler struct {
	state  *app.State
	logger *zap.Logger
}

func NewUserHandler(state *app.State, logger *zap.Logger) *UserHandler {
	return &UserHandler{state: state, logger: logger}
}

// GetByID handles GET /v1/users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	if middleware.GetWorkspace(c).UserID() == "" {
		respondError(c, h.logger, app.ErrUnauthenticated)
		return
	}
	user, err := h.state.User(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PATCH /v1/profile. Omitted fields are unchanged.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req app.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, err := middleware.GetWorkspace(c).UpdateProfile(req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
