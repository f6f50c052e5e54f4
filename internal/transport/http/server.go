package http

import (
	"fmt"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/parleychat/parley-server/internal/auth"
	"github.com/parleychat/parley-server/internal/config"
	"github.com/parleychat/parley-server/internal/core"
	"github.com/parleychat/parley-server/internal/store"
)

// NewServer builds the HTTP server: REST API, health check, and the
// websocket endpoint.
func NewServer(hub *core.Hub, authService *auth.Service, st store.Store, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	apiHandlers := NewAPIHandlers(authService, st, logger)
	groupHandlers := NewGroupHandlers(st, logger)
	messageHandlers := NewMessageHandlers(st, cfg.HistoryLimit, logger)
	userHandlers := NewUserHandlers(st, logger)

	router.GET("/health", healthHandler)
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, authService, logger)))

	authRoutes := router.Group("/api/auth")
	authRoutes.Use(AuthRateLimitMiddleware(cfg.AuthRateLimit))
	{
		authRoutes.POST("/register", apiHandlers.Register)
		authRoutes.POST("/login", apiHandlers.Login)
		authRoutes.POST("/logout", apiHandlers.Logout)
		authRoutes.POST("/forgot-password", apiHandlers.ForgotPassword)
		authRoutes.POST("/reset-password/:token", apiHandlers.ResetPassword)
	}

	authorized := router.Group("/api")
	authorized.Use(AuthMiddleware(authService, logger))
	{
		authorized.GET("/auth/me", apiHandlers.Me)
		authorized.GET("/auth/users", apiHandlers.ListUsers)
		authorized.GET("/groups", groupHandlers.ListGroups)
		authorized.POST("/groups", groupHandlers.CreateGroup)
		authorized.GET("/groups/:roomId", groupHandlers.GetGroup)
		authorized.GET("/messages/:roomId", messageHandlers.ListRoomMessages)
		authorized.GET("/users/:username/lastseen", userHandlers.LastSeen)
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	fmt.Fprint(c.Writer, "ok")
}
