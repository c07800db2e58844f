package ws

import (
	"sync"

	"rent4u_backend/internal/dto"
	"rent4u_backend/internal/logger"
	"rent4u_backend/internal/models"
)

// Envelope is the frame every server-to-client message travels in.
type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type Manager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			// A newer session for the same user replaces the old one.
			if old, ok := m.clients[client.UserID]; ok {
				close(old.Send)
			}
			m.clients[client.UserID] = client
			m.mu.Unlock()
			logger.Debug("ws client registered", "user_id", client.UserID)

		case client := <-m.unregister:
			m.mu.Lock()
			if current, ok := m.clients[client.UserID]; ok && current == client {
				close(client.Send)
				delete(m.clients, client.UserID)
			}
			m.mu.Unlock()
			logger.Debug("ws client unregistered", "user_id", client.UserID)
		}
	}
}

// PushNotification delivers a stored notification to the user's live
// session, if any. Implements the notification service's push hook.
func (m *Manager) PushNotification(userID string, notification *models.Notification) {
	resp := dto.NewNotificationResponse(notification)

	m.mu.RLock()
	client, ok := m.clients[userID]
	m.mu.RUnlock()
	if !ok {
		return
	}

	if client.sync != nil {
		client.sync.Push(resp)
	}
	client.trySend(Envelope{Type: "notification", Payload: resp})
}

// SendToUser pushes an arbitrary envelope to one user's session.
func (m *Manager) SendToUser(userID string, envelope Envelope) {
	m.mu.RLock()
	client, ok := m.clients[userID]
	m.mu.RUnlock()
	if !ok {
		return
	}
	client.trySend(envelope)
}
