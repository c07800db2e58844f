package models

import "time"

// Booking reserves a property for a date range. The range is treated as a
// closed interval [StartDate, EndDate] by the availability check: the day a
// previous guest checks out cannot be booked as a check-in day.
type Booking struct {
	BaseModel
	PropertyID    string               `gorm:"not null;index" json:"property_id"`
	TenantID      string               `gorm:"not null;index" json:"tenant_id"`
	StartDate     time.Time            `gorm:"not null" json:"start_date"`
	EndDate       time.Time            `gorm:"not null" json:"end_date"`
	Status        BookingStatus        `gorm:"not null;default:'pending';index" json:"status"`
	PaymentStatus BookingPaymentStatus `gorm:"not null;default:'pending'" json:"payment_status"`
	TotalAmount   float64              `gorm:"not null" json:"total_amount"`
	Currency      string               `gorm:"default:'GBP'" json:"currency"`

	// Relations
	Property Property `gorm:"foreignKey:PropertyID" json:"-"`
	Tenant   User     `gorm:"foreignKey:TenantID" json:"-"`
}

// Overlaps reports whether the closed interval of b intersects [start, end].
// The boundary day counts as overlapping on both sides.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return !b.StartDate.After(end) && !b.EndDate.Before(start)
}
