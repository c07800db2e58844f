package repositories

import (
	"encoding/json"
	"errors"
	"time"

	"rent4u_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound    = errors.New("notification not found")
	ErrInvalidNotificationData = errors.New("invalid notification data")
)

type NotificationRepository interface {
	Create(notification *models.Notification) error
	CreateBulk(notifications []*models.Notification) error
	FindByID(id string) (*models.Notification, error)
	FindUserNotifications(userID string, criteria NotificationCriteria) ([]models.Notification, int64, error)
	// FindUnreadIDs returns the ids of every sent or delivered
	// notification for the user, newest first.
	FindUnreadIDs(userID string) ([]string, error)
	MarkDelivered(notificationIDs []string) error
	MarkAsRead(notificationID string) error
	MarkMultipleAsRead(notificationIDs []string) error
	GetUnreadCount(userID string) (int64, error)
	Archive(notificationID string) error
	ArchiveReadOlderThan(olderThan time.Time) (int64, error)
	DeleteUserNotifications(userID string) error
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

// Search criteria for notifications
type NotificationCriteria struct {
	UnreadOnly bool      `form:"unread_only"`
	Type       string    `form:"type"`
	DateFrom   time.Time `form:"date_from"`
	DateTo     time.Time `form:"date_to"`
	Page       int       `form:"page" binding:"omitempty,min=1"`
	PageSize   int       `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) Create(notification *models.Notification) error {
	if err := r.validateNotification(notification); err != nil {
		return err
	}
	return r.db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) CreateBulk(notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	for _, notification := range notifications {
		if err := r.validateNotification(notification); err != nil {
			return err
		}
	}
	return r.db.CreateInBatches(notifications, 100).Error
}

func (r *NotificationRepositoryImpl) FindByID(id string) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepositoryImpl) FindUserNotifications(userID string, criteria NotificationCriteria) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	query := r.db.Where("user_id = ?", userID).
		Where("status <> ?", models.NotificationStatusArchived)

	if criteria.UnreadOnly {
		query = query.Where("status IN ?", []models.NotificationStatus{
			models.NotificationStatusSent, models.NotificationStatusDelivered,
		})
	}

	if criteria.Type != "" {
		query = query.Where("type = ?", criteria.Type)
	}

	if !criteria.DateFrom.IsZero() {
		query = query.Where("created_at >= ?", criteria.DateFrom)
	}

	if !criteria.DateTo.IsZero() {
		query = query.Where("created_at <= ?", criteria.DateTo)
	}

	var total int64
	if err := query.Model(&models.Notification{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := criteria.PageSize
	offset := (criteria.Page - 1) * criteria.PageSize

	err := query.Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *NotificationRepositoryImpl) FindUnreadIDs(userID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND status IN ?", userID, []models.NotificationStatus{
			models.NotificationStatusSent, models.NotificationStatusDelivered,
		}).
		Order("created_at DESC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *NotificationRepositoryImpl) MarkDelivered(notificationIDs []string) error {
	if len(notificationIDs) == 0 {
		return nil
	}
	// Only sent notifications move forward; a read one never regresses.
	return r.db.Model(&models.Notification{}).
		Where("id IN ? AND status = ?", notificationIDs, models.NotificationStatusSent).
		Update("status", models.NotificationStatusDelivered).Error
}

func (r *NotificationRepositoryImpl) MarkAsRead(notificationID string) error {
	result := r.db.Model(&models.Notification{}).
		Where("id = ? AND status IN ?", notificationID, []models.NotificationStatus{
			models.NotificationStatusSent, models.NotificationStatusDelivered,
		}).
		Updates(map[string]interface{}{
			"status":  models.NotificationStatusRead,
			"read_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Already read or missing. Marking read twice is a no-op.
		var count int64
		if err := r.db.Model(&models.Notification{}).
			Where("id = ?", notificationID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotificationNotFound
		}
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkMultipleAsRead(notificationIDs []string) error {
	if len(notificationIDs) == 0 {
		return nil
	}

	return r.db.Model(&models.Notification{}).
		Where("id IN ? AND status IN ?", notificationIDs, []models.NotificationStatus{
			models.NotificationStatusSent, models.NotificationStatusDelivered,
		}).
		Updates(map[string]interface{}{
			"status":  models.NotificationStatusRead,
			"read_at": time.Now(),
		}).Error
}

func (r *NotificationRepositoryImpl) GetUnreadCount(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND status IN ?", userID, []models.NotificationStatus{
			models.NotificationStatusSent, models.NotificationStatusDelivered,
		}).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) Archive(notificationID string) error {
	result := r.db.Model(&models.Notification{}).
		Where("id = ?", notificationID).
		Update("status", models.NotificationStatusArchived)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) ArchiveReadOlderThan(olderThan time.Time) (int64, error) {
	result := r.db.Model(&models.Notification{}).
		Where("status = ? AND read_at < ?", models.NotificationStatusRead, olderThan).
		Update("status", models.NotificationStatusArchived)
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) DeleteUserNotifications(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Notification{}).Error
}

// Helper methods

func (r *NotificationRepositoryImpl) validateNotification(notification *models.Notification) error {
	if notification.UserID == "" {
		return errors.New("user ID is required")
	}

	if notification.Type == "" {
		return errors.New("notification type is required")
	}

	if notification.Title == "" {
		return errors.New("notification title is required")
	}

	if len(notification.Data) > 0 {
		if !json.Valid(notification.Data) {
			return ErrInvalidNotificationData
		}
	}

	return nil
}
