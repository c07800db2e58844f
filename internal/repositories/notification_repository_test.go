package repositories

import (
	"testing"
	"time"

	"rent4u_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupNotificationDB(t *testing.T) (*gorm.DB, NotificationRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Notification{}))
	return db, NewNotificationRepository(db)
}

func storeNotification(t *testing.T, db *gorm.DB, userID string, status models.NotificationStatus, readAt *time.Time) *models.Notification {
	t.Helper()
	n := &models.Notification{
		UserID: userID,
		Type:   models.NotificationTypeSystem,
		Title:  "test",
		Status: status,
		ReadAt: readAt,
	}
	require.NoError(t, db.Create(n).Error)
	return n
}

func TestNotificationCreate_ValidationRules(t *testing.T) {
	_, repo := setupNotificationDB(t)

	require.Error(t, repo.Create(&models.Notification{Type: models.NotificationTypeSystem, Title: "t"}))
	require.Error(t, repo.Create(&models.Notification{UserID: "u1", Title: "t"}))
	require.Error(t, repo.Create(&models.Notification{UserID: "u1", Type: models.NotificationTypeSystem}))

	// Malformed payloads are caught before the insert.
	require.Error(t, repo.Create(&models.Notification{
		UserID: "u1",
		Type:   models.NotificationTypeSystem,
		Title:  "t",
		Data:   []byte("{not json"),
	}))

	require.NoError(t, repo.Create(&models.Notification{
		UserID: "u1",
		Type:   models.NotificationTypeSystem,
		Title:  "t",
		Data:   []byte(`{"booking_id": "b1"}`),
	}))
}

func TestMarkDelivered_OnlyAdvancesSent(t *testing.T) {
	db, repo := setupNotificationDB(t)

	sent := storeNotification(t, db, "u1", models.NotificationStatusSent, nil)
	now := time.Now()
	read := storeNotification(t, db, "u1", models.NotificationStatusRead, &now)

	require.NoError(t, repo.MarkDelivered([]string{sent.ID, read.ID}))

	var reloaded models.Notification
	require.NoError(t, db.First(&reloaded, "id = ?", sent.ID).Error)
	assert.Equal(t, models.NotificationStatusDelivered, reloaded.Status)

	var untouched models.Notification
	require.NoError(t, db.First(&untouched, "id = ?", read.ID).Error)
	assert.Equal(t, models.NotificationStatusRead, untouched.Status)

	// Empty batch is a no-op.
	require.NoError(t, repo.MarkDelivered(nil))
}

func TestMarkAsRead_IdempotentAndMissing(t *testing.T) {
	db, repo := setupNotificationDB(t)

	n := storeNotification(t, db, "u1", models.NotificationStatusDelivered, nil)

	require.NoError(t, repo.MarkAsRead(n.ID))
	require.NoError(t, repo.MarkAsRead(n.ID))
	assert.ErrorIs(t, repo.MarkAsRead("missing"), ErrNotificationNotFound)
}

func TestFindUserNotifications_FiltersAndExcludesArchived(t *testing.T) {
	db, repo := setupNotificationDB(t)

	storeNotification(t, db, "u1", models.NotificationStatusSent, nil)
	now := time.Now()
	storeNotification(t, db, "u1", models.NotificationStatusRead, &now)
	storeNotification(t, db, "u1", models.NotificationStatusArchived, &now)
	storeNotification(t, db, "u2", models.NotificationStatusSent, nil)

	all, total, err := repo.FindUserNotifications("u1", NotificationCriteria{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)

	unread, total, err := repo.FindUserNotifications("u1", NotificationCriteria{
		UnreadOnly: true, Page: 1, PageSize: 20,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, unread, 1)
	assert.Equal(t, models.NotificationStatusSent, unread[0].Status)
}

func TestArchiveReadOlderThan(t *testing.T) {
	db, repo := setupNotificationDB(t)

	old := time.Now().Add(-40 * 24 * time.Hour)
	recent := time.Now().Add(-time.Hour)
	storeNotification(t, db, "u1", models.NotificationStatusRead, &old)
	storeNotification(t, db, "u1", models.NotificationStatusRead, &recent)
	storeNotification(t, db, "u1", models.NotificationStatusSent, nil)

	affected, err := repo.ArchiveReadOlderThan(time.Now().Add(-30 * 24 * time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	var archived int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("status = ?", models.NotificationStatusArchived).Count(&archived).Error)
	assert.EqualValues(t, 1, archived)
}
