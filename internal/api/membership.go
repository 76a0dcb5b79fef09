package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/clubhub/internal/app"
	"github.com/lalith-99/clubhub/internal/middleware"
	"go.uber.org/zap"
)

// MembershipHandler serves the member directory of the current club and
// its admin actions.
type MembershipHandler struct {
	logger *zap.Logger
}

func NewMembershipHandler(logger *zap.Logger) *MembershipHandler {
	return &MembershipHandler{logger: logger}
}

// List handles GET /v1/members?search=&role=
func (h *MembershipHandler) List(c *gin.Context) {
	q := app.MemberQuery{Search: c.Query("search"), Role: c.Query("role")}
	members, err := middleware.GetWorkspace(c).Members(q)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// Stats handles GET /v1/members/stats
func (h *MembershipHandler) Stats(c *gin.Context) {
	stats, err := middleware.GetWorkspace(c).MemberStats()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Promote handles POST /v1/members/:id/promote
func (h *MembershipHandler) Promote(c *gin.Context) {
	user, err := middleware.GetWorkspace(c).PromoteToAdmin(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Remove handles DELETE /v1/members/:id
func (h *MembershipHandler) Remove(c *gin.Context) {
	user, err := middleware.GetWorkspace(c).RemoveMember(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
