package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/clubhub/internal/app"
	"github.com/lalith-99/clubhub/internal/auth"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	const secret = "test-secret"

	signedIn, _ := auth.GenerateToken("ws-1", "7", secret, time.Hour)
	anonymous, _ := auth.GenerateToken("ws-1", "", secret, time.Hour)

	tests := []struct {
		name       string
		token      string
		path       string
		wantStatus int
		wantLevel  zapcore.Level
		wantUser   string
	}{
		{"signed in", signedIn, "/x", http.StatusOK, zap.InfoLevel, "7"},
		{"anonymous workspace", anonymous, "/x", http.StatusOK, zap.InfoLevel, ""},
		{"rejected token", "", "/x", http.StatusUnauthorized, zap.InfoLevel, ""},
		{"server error", signedIn, "/boom", http.StatusInternalServerError, zap.ErrorLevel, "7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.InfoLevel)
			mw := AuthMiddleware(secret, workspaceMap{"ws-1": &app.Workspace{}})

			r := gin.New()
			r.Use(RequestLogger(zap.New(core)))
			r.GET("/x", mw, func(c *gin.Context) { c.Status(http.StatusOK) })
			r.GET("/boom", mw, func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			entries := logs.All()
			if len(entries) != 1 {
				t.Fatalf("logged %d entries, want 1", len(entries))
			}
			e := entries[0]
			if e.Level != tt.wantLevel {
				t.Errorf("level = %s, want %s", e.Level, tt.wantLevel)
			}
			fields := e.ContextMap()
			if fields["path"] != tt.path {
				t.Errorf("path = %v, want %s", fields["path"], tt.path)
			}
			got, ok := fields["user_id"]
			switch {
			case tt.wantUser == "" && ok:
				t.Errorf("user_id = %v, want none", got)
			case tt.wantUser != "" && got != tt.wantUser:
				t.Errorf("user_id = %v, want %s", got, tt.wantUser)
			}
		})
	}
}
