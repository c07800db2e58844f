package handlers

import (
	"rent4u_backend/internal/services"
	"rent4u_backend/internal/validator"

	"github.com/gin-gonic/gin"
)

// AppHandlers bundles every HTTP handler in the application.
type AppHandlers struct {
	Auth         *AuthHandler
	Property     *PropertyHandler
	Booking      *BookingHandler
	Payment      *PaymentHandler
	Notification *NotificationHandler
	Subscription *SubscriptionHandler
	Chat         *ChatHandler
	Review       *ReviewHandler
}

func NewAppHandlers(svcs *services.ServiceContainer, v *validator.Validator) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		Auth:         NewAuthHandler(base, svcs.AuthService),
		Property:     NewPropertyHandler(base, svcs.PropertyService),
		Booking:      NewBookingHandler(base, svcs.BookingService),
		Payment:      NewPaymentHandler(base, svcs.PaymentService),
		Notification: NewNotificationHandler(base, svcs.NotificationService),
		Subscription: NewSubscriptionHandler(base, svcs.SubscriptionService),
		Chat:         NewChatHandler(base, svcs.ChatService),
		Review:       NewReviewHandler(base, svcs.ReviewService),
	}
}

// RegisterAll mounts every handler under the given group.
func (h *AppHandlers) RegisterAll(rg *gin.RouterGroup) {
	h.Auth.RegisterRoutes(rg)
	h.Property.RegisterRoutes(rg)
	h.Booking.RegisterRoutes(rg)
	h.Payment.RegisterRoutes(rg)
	h.Notification.RegisterRoutes(rg)
	h.Subscription.RegisterRoutes(rg)
	h.Chat.RegisterRoutes(rg)
	h.Review.RegisterRoutes(rg)
}
