package ws

import (
	"encoding/json"

	"rent4u_backend/internal/logger"
	"rent4u_backend/internal/notify"
	"rent4u_backend/internal/services"

	"github.com/gorilla/websocket"
)

type IncomingMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan Envelope

	manager *Manager
	chatSvc services.ChatService
	sync    *notify.Synchronizer
}

func (c *Client) readPump() {
	defer func() {
		c.manager.unregister <- c
		if c.sync != nil {
			c.sync.Close()
		}
		c.Conn.Close()
	}()

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			break
		}

		var msg IncomingMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			logger.Debug("unparsable ws frame", "user_id", c.UserID)
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	for envelope := range c.Send {
		if err := c.Conn.WriteJSON(envelope); err != nil {
			break
		}
	}
	c.Conn.Close()
}

func (c *Client) handleMessage(msg IncomingMessage) {
	switch msg.Action {

	case "send_message":
		var payload struct {
			ConversationID string `json:"conversation_id"`
			Body           string `json:"body"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			logger.Debug("invalid send_message payload", "user_id", c.UserID)
			return
		}
		created, err := c.chatSvc.SendMessage(c.UserID, payload.ConversationID, payload.Body)
		if err != nil {
			c.trySend(Envelope{Type: "error", Payload: err.Error()})
			return
		}
		c.trySend(Envelope{Type: "message", Payload: created})
		c.manager.SendToUser(otherParticipantFromMessage(c, payload.ConversationID), Envelope{Type: "message", Payload: created})

	case "mark_all_read":
		if c.sync == nil {
			return
		}
		if err := c.sync.MarkAllRead(); err != nil {
			c.trySend(Envelope{Type: "error", Payload: "mark all read failed"})
			return
		}
		c.sendNotificationState()

	case "sync_notifications":
		c.sendNotificationState()

	default:
		logger.Debug("unhandled ws action", "action", msg.Action, "user_id", c.UserID)
	}
}

func (c *Client) sendNotificationState() {
	if c.sync == nil {
		return
	}
	items, unread := c.sync.Snapshot()
	c.trySend(Envelope{Type: "notifications_state", Payload: map[string]any{
		"notifications": items,
		"unread_count":  unread,
	}})
}

// trySend drops the frame rather than block on a slow consumer.
func (c *Client) trySend(envelope Envelope) {
	select {
	case c.Send <- envelope:
	default:
		logger.Debug("ws send buffer full, frame dropped", "user_id", c.UserID)
	}
}

// otherParticipantFromMessage resolves the peer of a conversation so a
// sent message also reaches their live session.
func otherParticipantFromMessage(c *Client, conversationID string) string {
	conversations, err := c.chatSvc.ListConversations(c.UserID)
	if err != nil {
		return ""
	}
	for _, conv := range conversations {
		if conv.ID != conversationID {
			continue
		}
		if conv.TenantID == c.UserID {
			return conv.LandlordID
		}
		return conv.TenantID
	}
	return ""
}
