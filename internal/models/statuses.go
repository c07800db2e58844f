package models

type UserStatus string
type UserRole string
type PropertyType string
type PropertyStatus string
type BookingStatus string
type BookingPaymentStatus string
type PaymentMethod string
type PaymentStatus string
type NotificationType string
type NotificationStatus string
type SubscriptionStatus string
type ReviewStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"

	UserRoleTenant   UserRole = "tenant"
	UserRoleLandlord UserRole = "landlord"
	UserRoleAdmin    UserRole = "admin"

	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeHouse      PropertyType = "house"
	PropertyTypeRoom       PropertyType = "room"
	PropertyTypeStudio     PropertyType = "studio"
	PropertyTypeCommercial PropertyType = "commercial"

	PropertyStatusDraft     PropertyStatus = "draft"
	PropertyStatusPublished PropertyStatus = "published"
	PropertyStatusArchived  PropertyStatus = "archived"

	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"

	BookingPaymentPending  BookingPaymentStatus = "pending"
	BookingPaymentPaid     BookingPaymentStatus = "paid"
	BookingPaymentRefunded BookingPaymentStatus = "refunded"

	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodPayPal       PaymentMethod = "paypal"

	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"

	NotificationTypeBooking      NotificationType = "booking"
	NotificationTypeSubscription NotificationType = "subscription"
	NotificationTypePayment      NotificationType = "payment"
	NotificationTypeProperty     NotificationType = "property"
	NotificationTypeMessage      NotificationType = "message"
	NotificationTypeReview       NotificationType = "review"
	NotificationTypeSystem       NotificationType = "system"

	NotificationStatusSent      NotificationStatus = "sent"
	NotificationStatusDelivered NotificationStatus = "delivered"
	NotificationStatusRead      NotificationStatus = "read"
	NotificationStatusArchived  NotificationStatus = "archived"

	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"

	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// Rank orders notification states for the poll/push merge: a notification
// only ever moves forward (sent -> delivered -> read -> archived), so the
// higher rank always wins regardless of arrival order.
func (s NotificationStatus) Rank() int {
	switch s {
	case NotificationStatusSent:
		return 0
	case NotificationStatusDelivered:
		return 1
	case NotificationStatusRead:
		return 2
	case NotificationStatusArchived:
		return 3
	}
	return -1
}

// Blocking reports whether a booking in this status blocks availability.
// Cancelled and completed bookings never block.
func (s BookingStatus) Blocking() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}
