package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type SubscriptionPlan struct {
	BaseModel
	Name     string         `gorm:"uniqueIndex;not null" json:"name"` // "free", "basic", "pro"
	Price    float64        `gorm:"not null" json:"price"`
	Currency string         `gorm:"default:'GBP'" json:"currency"`
	Duration string         `gorm:"not null" json:"duration"`         // "monthly", "yearly", "unlimited"
	Limits   datatypes.JSON `gorm:"type:jsonb" json:"limits"`         // {"max_listings": 5, "max_featured": 1}
	IsActive bool           `gorm:"default:true" json:"is_active"`
}

type PlanLimits struct {
	MaxListings int `json:"max_listings"`
	MaxFeatured int `json:"max_featured"`
}

// ParseLimits decodes the JSONB limits column. Missing or malformed limits
// come back as zero values, which the quota check treats as "nothing allowed".
func (p *SubscriptionPlan) ParseLimits() PlanLimits {
	var limits PlanLimits
	if len(p.Limits) > 0 {
		_ = json.Unmarshal(p.Limits, &limits)
	}
	return limits
}

type UserSubscription struct {
	BaseModel
	UserID      string             `gorm:"not null;index" json:"user_id"`
	PlanID      string             `gorm:"not null;index" json:"plan_id"`
	Status      SubscriptionStatus `gorm:"not null;default:'active'" json:"status"`
	StartDate   time.Time          `json:"start_date"`
	EndDate     time.Time          `json:"end_date"`
	AutoRenew   bool               `gorm:"default:true" json:"auto_renew"`
	CancelledAt *time.Time         `json:"cancelled_at,omitempty"`

	// Relations
	Plan SubscriptionPlan `gorm:"foreignKey:PlanID" json:"plan"`
}
