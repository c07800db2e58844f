package services

import (
	"testing"

	"rent4u_backend/internal/models"
	"rent4u_backend/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Property{},
		&models.PropertyImage{},
		&models.Booking{},
		&models.Payment{},
		&models.Notification{},
		&models.SubscriptionPlan{},
		&models.UserSubscription{},
		&models.Review{},
		&models.Conversation{},
		&models.Message{},
	))
	return db
}

type noopPusher struct{}

func (noopPusher) PushNotification(string, *models.Notification) {}

func newTestNotificationService(db *gorm.DB) NotificationService {
	return NewNotificationService(repositories.NewNotificationRepository(db), noopPusher{})
}

func createTestUser(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		Email:        string(role) + "-" + uuid.NewString() + "@example.com",
		PasswordHash: "hashed",
		Name:         "Test User",
		Role:         role,
		Status:       models.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestProperty(t *testing.T, db *gorm.DB, ownerID string, price float64) *models.Property {
	t.Helper()
	property := &models.Property{
		OwnerID:  ownerID,
		Title:    "Test flat",
		Type:     models.PropertyTypeApartment,
		Price:    price,
		Currency: "GBP",
		Address:  "1 Test Street",
		City:     "London",
		Country:  "UK",
		Status:   models.PropertyStatusPublished,
	}
	require.NoError(t, db.Create(property).Error)
	return property
}
