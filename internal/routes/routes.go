package routes

import (
	"net/http"

	"rent4u_backend/internal/handlers"
	"rent4u_backend/internal/logger"
	"rent4u_backend/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every HTTP and WebSocket route.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.Handler,
) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.RegisterAll(api)
	}

	// The websocket endpoint authenticates via token query parameter,
	// not the Authorization header.
	ginRouter.GET("/ws", wsHandler.ServeWS)

	logger.Info("routes registered")
}
