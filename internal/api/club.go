package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/clubhub/internal/app"
	"github.com/lalith-99/clubhub/internal/middleware"
	"go.uber.org/zap"
)

// ClubHandler lists clubs and handles club registration applications.
type ClubHandler struct {
	state  *app.State
	logger *zap.Logger
}

func NewClubHandler(state *app.State, logger *zap.Logger) *ClubHandler {
	return &ClubHandler{state: state, logger: logger}
}

// List handles GET /v1/clubs
func (h *ClubHandler) List(c *gin.Context) {
	if middleware.GetWorkspace(c).UserID() == "" {
		respondError(c, h.logger, app.ErrUnauthenticated)
		return
	}
	c.JSON(http.StatusOK, h.state.Clubs())
}

// Current handles GET /v1/clubs/current
func (h *ClubHandler) Current(c *gin.Context) {
	club, err := middleware.GetWorkspace(c).CurrentClub()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, club)
}

// Apply handles POST /v1/clubs/applications
func (h *ClubHandler) Apply(c *gin.Context) {
	var req app.ClubApplicationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	application, err := middleware.GetWorkspace(c).ApplyForClub(req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, application)
}

// Applications handles GET /v1/clubs/applications
func (h *ClubHandler) Applications(c *gin.Context) {
	list, err := middleware.GetWorkspace(c).Applications()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type reviewRequest struct {
	Approve *bool `json:"approve" binding:"required"`
}

// Review handles POST /v1/clubs/applications/:id/review
func (h *ClubHandler) Review(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	application, err := middleware.GetWorkspace(c).ReviewApplication(c.Param("id"), *req.Approve)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, application)
}
