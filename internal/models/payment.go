package models

import "time"

// Payment records a single payment attempt for a booking. TransactionID is
// an opaque identifier assigned by the payment provider.
type Payment struct {
	BaseModel
	BookingID     string        `gorm:"not null;index" json:"booking_id"`
	UserID        string        `gorm:"not null;index" json:"user_id"`
	Amount        float64       `gorm:"not null" json:"amount"`
	Currency      string        `gorm:"default:'GBP'" json:"currency"`
	Method        PaymentMethod `gorm:"not null" json:"method"`
	Status        PaymentStatus `gorm:"not null;default:'pending'" json:"status"`
	TransactionID string        `gorm:"uniqueIndex" json:"transaction_id"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`

	// Relations
	Booking Booking `gorm:"foreignKey:BookingID" json:"-"`
}
