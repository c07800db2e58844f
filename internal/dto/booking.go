package dto

import (
	"time"

	"rent4u_backend/internal/models"
)

type CreateBookingRequest struct {
	PropertyID string    `json:"property_id" validate:"required,uuid"`
	StartDate  time.Time `json:"start_date" validate:"required"`
	EndDate    time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed cancelled completed"`
}

type AvailabilityRequest struct {
	StartDate time.Time `form:"start_date" validate:"required"`
	EndDate   time.Time `form:"end_date" validate:"required,gtfield=StartDate"`
}

type AvailabilityResponse struct {
	PropertyID string `json:"property_id"`
	Available  bool   `json:"available"`
}

// BookedRange is a closed interval of blocked dates on a property
// calendar. Both endpoints are unavailable for new bookings.
type BookedRange struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type BookedDatesResponse struct {
	PropertyID string        `json:"property_id"`
	Ranges     []BookedRange `json:"ranges"`
}

type QuoteRequest struct {
	PropertyID string    `form:"property_id" validate:"required,uuid"`
	StartDate  time.Time `form:"start_date" validate:"required"`
	EndDate    time.Time `form:"end_date" validate:"required,gtfield=StartDate"`
}

type QuoteResponse struct {
	PropertyID string  `json:"property_id"`
	Days       int     `json:"days"`
	Rate       float64 `json:"rate"`
	Total      float64 `json:"total"`
	Currency   string  `json:"currency"`
}

type BookingResponse struct {
	ID            string                      `json:"id"`
	PropertyID    string                      `json:"property_id"`
	TenantID      string                      `json:"tenant_id"`
	StartDate     time.Time                   `json:"start_date"`
	EndDate       time.Time                   `json:"end_date"`
	Status        models.BookingStatus        `json:"status"`
	PaymentStatus models.BookingPaymentStatus `json:"payment_status"`
	TotalAmount   float64                     `json:"total_amount"`
	Currency      string                      `json:"currency"`
	Property      *PropertyResponse           `json:"property,omitempty"`
	CreatedAt     time.Time                   `json:"created_at"`
}

func NewBookingResponse(b *models.Booking) BookingResponse {
	resp := BookingResponse{
		ID:            b.ID,
		PropertyID:    b.PropertyID,
		TenantID:      b.TenantID,
		StartDate:     b.StartDate,
		EndDate:       b.EndDate,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		TotalAmount:   b.TotalAmount,
		Currency:      b.Currency,
		CreatedAt:     b.CreatedAt,
	}
	if b.Property.ID != "" {
		pr := NewPropertyResponse(&b.Property)
		resp.Property = &pr
	}
	return resp
}
