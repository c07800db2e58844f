package dto

import (
	"time"

	"rent4u_backend/internal/models"
)

type CreateReviewRequest struct {
	PropertyID string `json:"property_id" validate:"required,uuid"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Comment    string `json:"comment" validate:"max=2000"`
}

type ModerateReviewRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

type ReviewResponse struct {
	ID         string              `json:"id"`
	PropertyID string              `json:"property_id"`
	TenantID   string              `json:"tenant_id"`
	Rating     int                 `json:"rating"`
	Comment    string              `json:"comment"`
	Status     models.ReviewStatus `json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
}

func NewReviewResponse(r *models.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		PropertyID: r.PropertyID,
		TenantID:   r.TenantID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
	}
}
