package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/clubhub/internal/middleware"
	"go.uber.org/zap"
)

// DirectMessageHandler serves one-to-one conversations. :peer is the other
// user's id.
type DirectMessageHandler struct {
	logger *zap.Logger
}

func NewDirectMessageHandler(logger *zap.Logger) *DirectMessageHandler {
	return &DirectMessageHandler{logger: logger}
}

// Contacts handles GET /v1/dms/contacts?search=
func (h *DirectMessageHandler) Contacts(c *gin.Context) {
	contacts, err := middleware.GetWorkspace(c).Contacts(c.Query("search"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

// Conversation handles GET /v1/dms/:peer
func (h *DirectMessageHandler) Conversation(c *gin.Context) {
	w := middleware.GetWorkspace(c)
	peer := c.Param("peer")
	dms, err := w.Conversation(peer)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	unread, err := w.UnreadCount(peer)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": dms, "unread": unread})
}

type sendDirectMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// Send handles POST /v1/dms/:peer
func (h *DirectMessageHandler) Send(c *gin.Context) {
	var req sendDirectMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	dm, err := middleware.GetWorkspace(c).SendDirectMessage(c.Param("peer"), req.Content)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dm)
}

// MarkRead handles POST /v1/dms/:peer/read
func (h *DirectMessageHandler) MarkRead(c *gin.Context) {
	n, err := middleware.GetWorkspace(c).MarkConversationRead(c.Param("peer"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": n})
}
