package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/clubhub/internal/app"
	"github.com/lalith-99/clubhub/internal/middleware"
	"go.uber.org/zap"
)

// CallHandler drives a workspace's call controls. Media itself flows
// elsewhere; the server only tracks toggles, stream handles and chat.
type CallHandler struct {
	logger *zap.Logger
}

func NewCallHandler(logger *zap.Logger) *CallHandler {
	return &CallHandler{logger: logger}
}

// Get handles GET /v1/calls
func (h *CallHandler) Get(c *gin.Context) {
	call, ok := middleware.GetWorkspace(c).Call()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": app.ErrNoActiveCall.Error()})
		return
	}
	c.JSON(http.StatusOK, call)
}

type startCallRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// Start handles POST /v1/calls
func (h *CallHandler) Start(c *gin.Context) {
	var req startCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	call, err := middleware.GetWorkspace(c).StartCall(req.SessionID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, call)
}

// Toggle handles POST /v1/calls/toggle/:control
func (h *CallHandler) Toggle(c *gin.Context) {
	control, ok := app.ParseCallControl(c.Param("control"))
	if !ok {
		badRequest(c, fmt.Errorf("unknown call control %q", c.Param("control")))
		return
	}
	call, err := middleware.GetWorkspace(c).Toggle(control)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, call)
}

type callChatRequest struct {
	Text string `json:"text" binding:"required"`
}

// Chat handles POST /v1/calls/chat
func (h *CallHandler) Chat(c *gin.Context) {
	var req callChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	msg, err := middleware.GetWorkspace(c).SendCallChat(req.Text)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// streamHandle is a media stream known only by the id the media layer
// gave it.
type streamHandle string

func (s streamHandle) StreamID() string { return string(s) }

type attachStreamRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	StreamID string `json:"stream_id" binding:"required"`
}

// AttachStream handles POST /v1/calls/streams
func (h *CallHandler) AttachStream(c *gin.Context) {
	var req attachStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	w := middleware.GetWorkspace(c)
	if err := w.AttachStream(req.UserID, streamHandle(req.StreamID)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Leave handles DELETE /v1/calls
func (h *CallHandler) Leave(c *gin.Context) {
	if err := middleware.GetWorkspace(c).LeaveCall(); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
