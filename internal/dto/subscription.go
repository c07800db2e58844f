package dto

import (
	"time"

	"rent4u_backend/internal/models"
)

type SubscribeRequest struct {
	PlanID    string `json:"plan_id" validate:"required,uuid"`
	AutoRenew bool   `json:"auto_renew"`
}

type PlanResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Price    float64           `json:"price"`
	Currency string            `json:"currency"`
	Duration string            `json:"duration"`
	Limits   models.PlanLimits `json:"limits"`
	IsActive bool              `json:"is_active"`
}

func NewPlanResponse(p *models.SubscriptionPlan) PlanResponse {
	limits := p.ParseLimits()
	return PlanResponse{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Currency: p.Currency,
		Duration: p.Duration,
		Limits:   limits,
		IsActive: p.IsActive,
	}
}

type SubscriptionResponse struct {
	ID          string                    `json:"id"`
	PlanID      string                    `json:"plan_id"`
	Status      models.SubscriptionStatus `json:"status"`
	StartDate   time.Time                 `json:"start_date"`
	EndDate     time.Time                 `json:"end_date"`
	AutoRenew   bool                      `json:"auto_renew"`
	CancelledAt *time.Time                `json:"cancelled_at,omitempty"`
	Plan        *PlanResponse             `json:"plan,omitempty"`
}

func NewSubscriptionResponse(s *models.UserSubscription) SubscriptionResponse {
	resp := SubscriptionResponse{
		ID:          s.ID,
		PlanID:      s.PlanID,
		Status:      s.Status,
		StartDate:   s.StartDate,
		EndDate:     s.EndDate,
		AutoRenew:   s.AutoRenew,
		CancelledAt: s.CancelledAt,
	}
	if s.Plan.ID != "" {
		plan := NewPlanResponse(&s.Plan)
		resp.Plan = &plan
	}
	return resp
}

type UsageResponse struct {
	ActiveListings   int64 `json:"active_listings"`
	MaxListings      int   `json:"max_listings"`
	FeaturedListings int64 `json:"featured_listings"`
	MaxFeatured      int   `json:"max_featured"`
}
