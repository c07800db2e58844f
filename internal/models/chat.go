package models

import "time"

// Conversation groups the messages between two users, optionally about a
// specific property. LastMessage is a denormalized convenience copy kept in
// sync on every send; the message table stays the source of truth.
type Conversation struct {
	BaseModel
	PropertyID    *string    `gorm:"index" json:"property_id,omitempty"`
	TenantID      string     `gorm:"not null;index" json:"tenant_id"`
	LandlordID    string     `gorm:"not null;index" json:"landlord_id"`
	LastMessage   string     `json:"last_message"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`

	// Relations
	Messages []Message `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
}

type Message struct {
	BaseModel
	ConversationID string `gorm:"not null;index" json:"conversation_id"`
	SenderID       string `gorm:"not null;index" json:"sender_id"`
	Body           string `gorm:"not null" json:"body"`
	IsRead         bool   `gorm:"default:false" json:"is_read"`
}

// OtherParticipant returns the conversation counterpart of userID.
func (c *Conversation) OtherParticipant(userID string) string {
	if c.TenantID == userID {
		return c.LandlordID
	}
	return c.TenantID
}

// HasParticipant reports whether userID takes part in the conversation.
func (c *Conversation) HasParticipant(userID string) bool {
	return c.TenantID == userID || c.LandlordID == userID
}
