package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	UserID  string             `gorm:"not null;index" json:"user_id"`
	Type    NotificationType   `gorm:"not null" json:"type"`
	Title   string             `gorm:"not null" json:"title"`
	Message string             `json:"message"`
	Data    datatypes.JSON     `gorm:"type:jsonb" json:"data,omitempty"` // {"booking_id": "...", "property_id": "..."}
	Status  NotificationStatus `gorm:"not null;default:'sent';index" json:"status"`
	ReadAt  *time.Time         `json:"read_at,omitempty"`
}

// Unread reports whether the notification still counts toward the unread
// badge. Archived notifications are out of the lifecycle entirely.
func (n *Notification) Unread() bool {
	return n.Status == NotificationStatusSent || n.Status == NotificationStatusDelivered
}
