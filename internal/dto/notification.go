package dto

import (
	"encoding/json"
	"time"

	"rent4u_backend/internal/models"
)

type NotificationResponse struct {
	ID        string                    `json:"id"`
	Type      models.NotificationType   `json:"type"`
	Title     string                    `json:"title"`
	Message   string                    `json:"message"`
	Data      json.RawMessage           `json:"data,omitempty"`
	Status    models.NotificationStatus `json:"status"`
	ReadAt    *time.Time                `json:"read_at,omitempty"`
	CreatedAt time.Time                 `json:"created_at"`
}

func NewNotificationResponse(n *models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Data:      json.RawMessage(n.Data),
		Status:    n.Status,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
	Total         int64                  `json:"total"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"page_size"`
}

type MarkReadRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
