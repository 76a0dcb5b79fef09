package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/clubhub/internal/app"
	"github.com/lalith-99/clubhub/internal/auth"
	"github.com/lalith-99/clubhub/internal/middleware"
	"github.com/lalith-99/clubhub/internal/models"
	"go.uber.org/zap"
)

// Conversations is the part of the chatbot the auth handler needs: a
// workspace's transcript goes away with the workspace.
type Conversations interface {
	Clear(id string)
}

// AuthHandler serves login, signup and logout. Login and signup are the
// only public endpoints; each opens a fresh workspace and returns a token
// bound to it.
type AuthHandler struct {
	state     *app.State
	chats     Conversations
	jwtSecret string
	ttl       time.Duration
	logger    *zap.Logger
}

func NewAuthHandler(state *app.State, chats Conversations, jwtSecret string, ttl time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		state:     state,
		chats:     chats,
		jwtSecret: jwtSecret,
		ttl:       ttl,
		logger:    logger,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// authResponse is what both signup and login return. The client sends the
// token as "Authorization: Bearer <token>" from then on.
type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	w := h.state.OpenWorkspace()
	user, err := w.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.state.CloseWorkspace(w.ID())
		respondError(c, h.logger, err)
		return
	}
	h.issue(c, w, user, http.StatusOK)
}

// Signup handles POST /v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req app.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	w := h.state.OpenWorkspace()
	user, err := w.Signup(c.Request.Context(), req)
	if err != nil {
		h.state.CloseWorkspace(w.ID())
		respondError(c, h.logger, err)
		return
	}
	h.issue(c, w, user, http.StatusCreated)
}

func (h *AuthHandler) issue(c *gin.Context, w *app.Workspace, user models.User, status int) {
	token, err := auth.GenerateToken(w.ID(), user.ID, h.jwtSecret, h.ttl)
	if err != nil {
		h.state.CloseWorkspace(w.ID())
		h.logger.Error("failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	// Taken after signing, so the workspace never closes before the token's
	// exp claim.
	w.ExpireAt(time.Now().Add(h.ttl))
	c.JSON(status, authResponse{Token: token, User: user})
}

// Logout handles POST /v1/auth/logout. The workspace and its token stop
// working immediately.
func (h *AuthHandler) Logout(c *gin.Context) {
	w := middleware.GetWorkspace(c)
	w.Logout()
	h.state.CloseWorkspace(w.ID())
	h.chats.Clear(w.ID())
	c.Status(http.StatusNoContent)
}

// Me handles GET /v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.GetWorkspace(c).Auth())
}
