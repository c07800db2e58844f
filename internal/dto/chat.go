package dto

import (
	"time"

	"rent4u_backend/internal/models"
)

type StartConversationRequest struct {
	PropertyID string `json:"property_id" validate:"omitempty,uuid"`
	LandlordID string `json:"landlord_id" validate:"required,uuid"`
	Body       string `json:"body" validate:"required,min=1,max=2000"`
}

type SendMessageRequest struct {
	Body string `json:"body" validate:"required,min=1,max=2000"`
}

type MessageResponseDTO struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Body           string    `json:"body"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewMessageResponse(m *models.Message) MessageResponseDTO {
	return MessageResponseDTO{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Body:           m.Body,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
	}
}

type ConversationResponse struct {
	ID            string     `json:"id"`
	PropertyID    *string    `json:"property_id,omitempty"`
	TenantID      string     `json:"tenant_id"`
	LandlordID    string     `json:"landlord_id"`
	LastMessage   string     `json:"last_message"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	UnreadCount   int64      `json:"unread_count"`
}

func NewConversationResponse(c *models.Conversation, unread int64) ConversationResponse {
	return ConversationResponse{
		ID:            c.ID,
		PropertyID:    c.PropertyID,
		TenantID:      c.TenantID,
		LandlordID:    c.LandlordID,
		LastMessage:   c.LastMessage,
		LastMessageAt: c.LastMessageAt,
		UnreadCount:   unread,
	}
}
