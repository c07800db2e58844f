package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"rent4u_backend/internal/dto"
	"rent4u_backend/internal/logger"
	"rent4u_backend/internal/models"
	"rent4u_backend/internal/repositories"
	"rent4u_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

// Pusher delivers a freshly stored notification to any live connection
// the recipient holds. Delivery is best effort; the poll cycle picks up
// anything a push missed.
type Pusher interface {
	PushNotification(userID string, notification *models.Notification)
}

type NotificationService interface {
	List(userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error)
	GetUnreadCount(userID string) (int64, error)
	MarkRead(userID string, ids []string) error
	MarkAllRead(userID string) error
	Archive(userID, id string) error

	// Event factories
	NotifyBookingRequested(landlordID, propertyTitle, bookingID string) error
	NotifyBookingStatus(tenantID, propertyTitle string, status models.BookingStatus) error
	NotifyPaymentReceived(userID string, amount float64, currency, bookingID string) error
	NotifyNewMessage(recipientID, senderName, conversationID string) error
	NotifyNewReview(landlordID, propertyTitle string, rating int) error
	NotifySubscriptionExpired(userID, planName string) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	pusher           Pusher
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	pusher Pusher,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		pusher:           pusher,
	}
}

func (s *notificationService) List(userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error) {
	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 {
		criteria.PageSize = 20
	}

	notifications, total, err := s.notificationRepo.FindUserNotifications(userID, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	unread, err := s.notificationRepo.GetUnreadCount(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.NotificationResponse, 0, len(notifications))
	ids := make([]string, 0, len(notifications))
	for i := range notifications {
		items = append(items, dto.NewNotificationResponse(&notifications[i]))
		if notifications[i].Status == models.NotificationStatusSent {
			ids = append(ids, notifications[i].ID)
		}
	}

	// Listing a page counts as delivery for the sent items on it.
	if err := s.notificationRepo.MarkDelivered(ids); err != nil {
		logger.WithError(err).Warn("failed to mark notifications delivered", "user_id", userID)
	}

	return &dto.NotificationListResponse{
		Notifications: items,
		UnreadCount:   unread,
		Total:         total,
		Page:          criteria.Page,
		PageSize:      criteria.PageSize,
	}, nil
}

func (s *notificationService) GetUnreadCount(userID string) (int64, error) {
	count, err := s.notificationRepo.GetUnreadCount(userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

func (s *notificationService) MarkRead(userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	// Only the caller's own notifications may move to read.
	owned := make([]string, 0, len(ids))
	for _, id := range ids {
		notification, err := s.notificationRepo.FindByID(id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotificationNotFound) {
				continue
			}
			return apperrors.InternalError(err)
		}
		if notification.UserID == userID {
			owned = append(owned, id)
		}
	}

	if err := s.notificationRepo.MarkMultipleAsRead(owned); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(userID string) error {
	ids, err := s.notificationRepo.FindUnreadIDs(userID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if len(ids) == 0 {
		return nil
	}
	if err := s.notificationRepo.MarkMultipleAsRead(ids); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) Archive(userID, id string) error {
	notification, err := s.notificationRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	if notification.UserID != userID {
		return apperrors.NewForbiddenError("Not your notification")
	}
	if err := s.notificationRepo.Archive(id); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// Event factories

func (s *notificationService) NotifyBookingRequested(landlordID, propertyTitle, bookingID string) error {
	return s.deliver(&models.Notification{
		UserID:  landlordID,
		Type:    models.NotificationTypeBooking,
		Title:   "New booking request",
		Message: fmt.Sprintf("You have a new booking request for '%s'", propertyTitle),
		Data:    mustJSON(map[string]interface{}{"booking_id": bookingID}),
	})
}

func (s *notificationService) NotifyBookingStatus(tenantID, propertyTitle string, status models.BookingStatus) error {
	var title, message string
	switch status {
	case models.BookingStatusConfirmed:
		title = "Booking confirmed"
		message = fmt.Sprintf("Your booking for '%s' was confirmed", propertyTitle)
	case models.BookingStatusCancelled:
		title = "Booking cancelled"
		message = fmt.Sprintf("Your booking for '%s' was cancelled", propertyTitle)
	case models.BookingStatusCompleted:
		title = "Stay completed"
		message = fmt.Sprintf("Your stay at '%s' is complete. Leave a review!", propertyTitle)
	default:
		return errors.New("unsupported status for notification")
	}

	return s.deliver(&models.Notification{
		UserID:  tenantID,
		Type:    models.NotificationTypeBooking,
		Title:   title,
		Message: message,
	})
}

func (s *notificationService) NotifyPaymentReceived(userID string, amount float64, currency, bookingID string) error {
	return s.deliver(&models.Notification{
		UserID:  userID,
		Type:    models.NotificationTypePayment,
		Title:   "Payment received",
		Message: fmt.Sprintf("Payment of %.2f %s received", amount, currency),
		Data:    mustJSON(map[string]interface{}{"booking_id": bookingID}),
	})
}

func (s *notificationService) NotifyNewMessage(recipientID, senderName, conversationID string) error {
	return s.deliver(&models.Notification{
		UserID:  recipientID,
		Type:    models.NotificationTypeMessage,
		Title:   "New message",
		Message: fmt.Sprintf("New message from %s", senderName),
		Data:    mustJSON(map[string]interface{}{"conversation_id": conversationID}),
	})
}

func (s *notificationService) NotifyNewReview(landlordID, propertyTitle string, rating int) error {
	return s.deliver(&models.Notification{
		UserID:  landlordID,
		Type:    models.NotificationTypeReview,
		Title:   "New review",
		Message: fmt.Sprintf("'%s' received a %d-star review", propertyTitle, rating),
	})
}

func (s *notificationService) NotifySubscriptionExpired(userID, planName string) error {
	return s.deliver(&models.Notification{
		UserID:  userID,
		Type:    models.NotificationTypeSubscription,
		Title:   "Subscription expired",
		Message: fmt.Sprintf("Your '%s' plan has expired", planName),
	})
}

// deliver stores the notification, then pushes it to live connections.
func (s *notificationService) deliver(notification *models.Notification) error {
	if err := s.notificationRepo.Create(notification); err != nil {
		return err
	}
	if s.pusher != nil {
		s.pusher.PushNotification(notification.UserID, notification)
	}
	return nil
}

func mustJSON(v map[string]interface{}) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}
