package ws

import (
	"net/http"
	"time"

	"rent4u_backend/internal/auth"
	"rent4u_backend/internal/config"
	"rent4u_backend/internal/logger"
	"rent4u_backend/internal/notify"
	"rent4u_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type Handler struct {
	manager         *Manager
	chatSvc         services.ChatService
	notificationSvc services.NotificationService
}

func NewHandler(manager *Manager, chatSvc services.ChatService, notificationSvc services.NotificationService) *Handler {
	return &Handler{
		manager:         manager,
		chatSvc:         chatSvc,
		notificationSvc: notificationSvc,
	}
}

// ServeWS upgrades the connection. Browsers cannot set headers on a
// websocket dial, so the bearer token rides in the query string.
func (h *Handler) ServeWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token query parameter is required"})
		return
	}

	claims, err := auth.ParseToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	cfg := config.GetConfig()
	client := &Client{
		UserID:  claims.UserID,
		Conn:    conn,
		Send:    make(chan Envelope, 256),
		manager: h.manager,
		chatSvc: h.chatSvc,
		sync: notify.NewSynchronizer(
			claims.UserID,
			h.notificationSvc,
			cfg.Notifications.PageSize,
			time.Duration(cfg.Notifications.PollInterval)*time.Second,
		),
	}

	h.manager.register <- client

	go client.readPump()
	go client.writePump()

	client.sendNotificationState()
}
