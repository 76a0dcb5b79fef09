package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/clubhub/internal/app"
	"github.com/lalith-99/clubhub/internal/filestore"
	"go.uber.org/zap"
)

// statusFor maps state errors to HTTP statuses. Anything unlisted is a 500.
var statusFor = []struct {
	err    error
	status int
}{
	{app.ErrValidation, http.StatusBadRequest},
	{app.ErrUnauthenticated, http.StatusUnauthorized},
	{app.ErrInvalidCredentials, http.StatusUnauthorized},
	{app.ErrForbidden, http.StatusForbidden},
	{app.ErrNotFound, http.StatusNotFound},
	{filestore.ErrNotFound, http.StatusNotFound},
	{app.ErrDuplicateName, http.StatusConflict},
	{app.ErrSessionFull, http.StatusConflict},
	{app.ErrAuthInProgress, http.StatusConflict},
	{app.ErrNoActiveCall, http.StatusConflict},
	{context.DeadlineExceeded, http.StatusGatewayTimeout},
}

// respondError writes err as {"error": ...}. Validation failures also list
// the offending fields. Unexpected errors are logged and hidden.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var verr *app.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
		return
	}
	if errors.Is(err, app.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}
	for _, m := range statusFor {
		if errors.Is(err, m.err) {
			c.JSON(m.status, gin.H{"error": err.Error()})
			return
		}
	}

	logger.Error("request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// badRequest reports a malformed body or parameter.
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
