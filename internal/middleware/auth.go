package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/clubhub/internal/app"
	"github.com/lalith-99/clubhub/internal/auth"
)

// Context keys for values the auth middleware stores in gin.Context.
const (
	ContextKeyWorkspace = "workspace"
	ContextKeyClaims    = "claims"
)

// Workspaces resolves a workspace id carried by a token.
type Workspaces interface {
	Workspace(id string) (*app.Workspace, bool)
}

// AuthMiddleware resolves the bearer token to an open workspace and stores
// it in the context. The token may also come in the "token" query
// parameter, since browsers cannot set headers on websocket upgrades.
//
// It does not require the workspace to be logged in: anonymous workspaces
// reach their handlers, and the state decides what they may do.
func AuthMiddleware(secret string, workspaces Workspaces) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearer(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing authorization header",
			})
			return
		}

		claims, err := auth.ParseToken(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		w, found := workspaces.Workspace(claims.WorkspaceID)
		if !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "session has ended, log in again",
			})
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeyWorkspace, w)
		c.Next()
	}
}

func bearer(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		t := c.Query("token")
		return t, t != ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// GetWorkspace returns the workspace AuthMiddleware resolved, or nil.
func GetWorkspace(c *gin.Context) *app.Workspace {
	val, exists := c.Get(ContextKeyWorkspace)
	if !exists {
		return nil
	}
	w, ok := val.(*app.Workspace)
	if !ok {
		return nil
	}
	return w
}

func GetClaims(c *gin.Context) *auth.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}
