package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/clubhub/internal/app"
	"github.com/lalith-99/clubhub/internal/chatbot"
	"github.com/lalith-99/clubhub/internal/filestore"
	"github.com/lalith-99/clubhub/internal/middleware"
	"github.com/lalith-99/clubhub/internal/realtime"
	"go.uber.org/zap"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Health(ctx context.Context) error
}

// Deps is everything the router wires into its handlers. DB may be nil
// when persistence is off.
type Deps struct {
	State     *app.State
	Files     filestore.Store
	Bot       *chatbot.Bot
	Hub       *realtime.Hub
	DB        Pinger
	JWTSecret string
	JWTTTL    time.Duration
	Logger    *zap.Logger
}

// NewRouter builds the HTTP surface. Health, login and signup are public;
// every other /v1 route needs a token bound to an open workspace.
func NewRouter(d Deps) *gin.Engine {
	srv := gin.New()
	srv.Use(middleware.RequestLogger(d.Logger), gin.Recovery())
	srv.MaxMultipartMemory = 8 << 20

	srv.GET("/v1/health", health(d.DB))

	authH := NewAuthHandler(d.State, d.Bot, d.JWTSecret, d.JWTTTL, d.Logger)
	srv.POST("/v1/auth/login", authH.Login)
	srv.POST("/v1/auth/signup", authH.Signup)

	v1 := srv.Group("/v1")
	v1.Use(middleware.AuthMiddleware(d.JWTSecret, d.State))

	v1.POST("/auth/logout", authH.Logout)
	v1.GET("/auth/me", authH.Me)

	viewH := NewViewHandler(d.Logger)
	v1.GET("/view", viewH.Get)
	v1.POST("/view/club", viewH.SwitchClub)
	v1.POST("/view/channel", viewH.SelectChannel)
	v1.POST("/view/overlays/:kind", viewH.OpenOverlay)
	v1.DELETE("/view/overlays/:kind", viewH.CloseOverlay)

	clubH := NewClubHandler(d.State, d.Logger)
	v1.GET("/clubs", clubH.List)
	v1.GET("/clubs/current", clubH.Current)
	v1.GET("/clubs/applications", clubH.Applications)
	v1.POST("/clubs/applications", clubH.Apply)
	v1.POST("/clubs/applications/:id/review", clubH.Review)

	channelH := NewChannelHandler(d.Logger)
	v1.GET("/channels", channelH.List)
	v1.POST("/channels", channelH.Create)

	memberH := NewMembershipHandler(d.Logger)
	v1.GET("/members", memberH.List)
	v1.GET("/members/stats", memberH.Stats)
	v1.POST("/members/:id/promote", memberH.Promote)
	v1.DELETE("/members/:id", memberH.Remove)

	messageH := NewMessageHandler(d.Logger)
	v1.GET("/messages", messageH.List)
	v1.POST("/messages", messageH.Create)
	v1.POST("/messages/:id/pin", messageH.TogglePin)
	v1.POST("/messages/:id/read", messageH.MarkRead)

	resourceH := NewResourceHandler(d.Files, d.Logger)
	v1.GET("/resources", resourceH.List)
	v1.POST("/resources", resourceH.Upload)
	v1.GET("/resources/:id/download", resourceH.Download)

	sessionH := NewSessionHandler(d.Logger)
	v1.GET("/sessions", sessionH.List)
	v1.POST("/sessions", sessionH.Create)
	v1.POST("/sessions/:id/join", sessionH.ToggleJoin)

	dmH := NewDirectMessageHandler(d.Logger)
	v1.GET("/dms/contacts", dmH.Contacts)
	v1.GET("/dms/:peer", dmH.Conversation)
	v1.POST("/dms/:peer", dmH.Send)
	v1.POST("/dms/:peer/read", dmH.MarkRead)

	userH := NewUserHandler(d.State, d.Logger)
	v1.GET("/users/:id", userH.GetByID)
	v1.PATCH("/profile", userH.UpdateProfile)

	callH := NewCallHandler(d.Logger)
	v1.GET("/calls", callH.Get)
	v1.POST("/calls", callH.Start)
	v1.POST("/calls/toggle/:control", callH.Toggle)
	v1.POST("/calls/chat", callH.Chat)
	v1.POST("/calls/streams", callH.AttachStream)
	v1.DELETE("/calls", callH.Leave)

	botH := NewChatbotHandler(d.Bot, d.Logger)
	v1.GET("/chatbot", botH.Transcript)
	v1.POST("/chatbot", botH.Ask)
	v1.DELETE("/chatbot", botH.Clear)

	rtH := NewRealtimeHandler(d.Hub, d.Logger)
	v1.GET("/ws", rtH.Connect)

	return srv
}

// health reports ok, plus the database when one is configured.
func health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "ok"})
	}
}
