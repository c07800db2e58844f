package services

import (
	"fmt"
	"testing"
	"time"

	"rent4u_backend/internal/dto"
	"rent4u_backend/internal/email"
	"rent4u_backend/internal/models"
	"rent4u_backend/internal/repositories"
	"rent4u_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newSubscriptionFixture(t *testing.T) (SubscriptionService, *gorm.DB) {
	t.Helper()
	db := setupServiceDB(t)
	svc := NewSubscriptionService(
		repositories.NewSubscriptionRepository(db),
		repositories.NewPropertyRepository(db),
		repositories.NewUserRepository(db),
		newTestNotificationService(db),
		email.NoopProvider{},
	)
	return svc, db
}

func seedPlan(t *testing.T, db *gorm.DB, name, duration string, maxListings, maxFeatured int) *models.SubscriptionPlan {
	t.Helper()
	plan := &models.SubscriptionPlan{
		Name:     name,
		Price:    9.99,
		Currency: "GBP",
		Duration: duration,
		Limits: datatypes.JSON([]byte(fmt.Sprintf(
			`{"max_listings": %d, "max_featured": %d}`, maxListings, maxFeatured,
		))),
		IsActive: true,
	}
	require.NoError(t, db.Create(plan).Error)
	return plan
}

func seedActiveSubscription(t *testing.T, db *gorm.DB, userID, planID string) *models.UserSubscription {
	t.Helper()
	sub := &models.UserSubscription{
		UserID:    userID,
		PlanID:    planID,
		Status:    models.SubscriptionStatusActive,
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 1, 0),
	}
	require.NoError(t, db.Create(sub).Error)
	return sub
}

func TestSubscribe_SetsEndDateFromDuration(t *testing.T) {
	svc, db := newSubscriptionFixture(t)

	cases := []struct {
		duration string
		minYears int
	}{
		{"monthly", 0},
		{"yearly", 1},
		{"unlimited", 99},
	}

	for _, tc := range cases {
		t.Run(tc.duration, func(t *testing.T) {
			plan := seedPlan(t, db, "plan-"+tc.duration, tc.duration, 5, 1)
			owner := createTestUser(t, db, models.UserRoleLandlord)

			resp, err := svc.Subscribe(owner.ID, &dto.SubscribeRequest{PlanID: plan.ID})
			require.NoError(t, err)

			horizon := time.Now().AddDate(tc.minYears, 0, 0).Add(-time.Minute)
			assert.True(t, resp.EndDate.After(horizon))
		})
	}
}

func TestSubscribe_OneActiveAtATime(t *testing.T) {
	svc, db := newSubscriptionFixture(t)
	user := createTestUser(t, db, models.UserRoleLandlord)
	plan := seedPlan(t, db, "basic", "monthly", 5, 1)

	_, err := svc.Subscribe(user.ID, &dto.SubscribeRequest{PlanID: plan.ID})
	require.NoError(t, err)

	_, err = svc.Subscribe(user.ID, &dto.SubscribeRequest{PlanID: plan.ID})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 409, appErr.HTTPCode)
}

func TestSubscribe_InactivePlanRejected(t *testing.T) {
	svc, db := newSubscriptionFixture(t)
	user := createTestUser(t, db, models.UserRoleLandlord)
	plan := seedPlan(t, db, "retired", "monthly", 5, 1)
	require.NoError(t, db.Model(plan).Update("is_active", false).Error)

	_, err := svc.Subscribe(user.ID, &dto.SubscribeRequest{PlanID: plan.ID})
	require.Error(t, err)
}

func TestQuota_FreeTierWithoutSubscription(t *testing.T) {
	svc, db := newSubscriptionFixture(t)
	user := createTestUser(t, db, models.UserRoleLandlord)

	// Free tier allows one published listing and no featuring.
	ok, err := svc.CanCreateListing(user.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanFeatureListing(user.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	createTestProperty(t, db, user.ID, 100)

	ok, err = svc.CanCreateListing(user.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQuota_PlanLimitsApply(t *testing.T) {
	svc, db := newSubscriptionFixture(t)
	user := createTestUser(t, db, models.UserRoleLandlord)
	plan := seedPlan(t, db, "basic", "monthly", 2, 1)
	seedActiveSubscription(t, db, user.ID, plan.ID)

	createTestProperty(t, db, user.ID, 100)

	ok, err := svc.CanCreateListing(user.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	createTestProperty(t, db, user.ID, 100)

	// Draft listings do not count toward the quota.
	draft := createTestProperty(t, db, user.ID, 100)
	require.NoError(t, db.Model(draft).Update("status", models.PropertyStatusDraft).Error)

	ok, err = svc.CanCreateListing(user.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.CanFeatureListing(user.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestQuota_NegativeLimitMeansUnlimited(t *testing.T) {
	svc, db := newSubscriptionFixture(t)
	user := createTestUser(t, db, models.UserRoleLandlord)
	plan := seedPlan(t, db, "unlimited", "monthly", -1, -1)
	seedActiveSubscription(t, db, user.ID, plan.ID)

	for i := 0; i < 5; i++ {
		createTestProperty(t, db, user.ID, 100)
	}

	ok, err := svc.CanCreateListing(user.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanFeatureListing(user.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGetUsage_ReportsCountsAgainstLimits(t *testing.T) {
	svc, db := newSubscriptionFixture(t)
	user := createTestUser(t, db, models.UserRoleLandlord)
	plan := seedPlan(t, db, "basic", "monthly", 5, 2)
	seedActiveSubscription(t, db, user.ID, plan.ID)

	createTestProperty(t, db, user.ID, 100)
	featured := createTestProperty(t, db, user.ID, 100)
	require.NoError(t, db.Model(featured).Update("featured", true).Error)

	usage, err := svc.GetUsage(user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, usage.ActiveListings)
	assert.Equal(t, 5, usage.MaxListings)
	assert.EqualValues(t, 1, usage.FeaturedListings)
	assert.Equal(t, 2, usage.MaxFeatured)
}

func TestCancel_RequiresActiveSubscription(t *testing.T) {
	svc, db := newSubscriptionFixture(t)
	user := createTestUser(t, db, models.UserRoleLandlord)

	require.Error(t, svc.Cancel(user.ID))

	plan := seedPlan(t, db, "basic", "monthly", 5, 1)
	seedActiveSubscription(t, db, user.ID, plan.ID)

	require.NoError(t, svc.Cancel(user.ID))

	// After cancelling the quota drops back to the free tier.
	ok, err := svc.CanFeatureListing(user.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProcessExpired_SweepsOverdueAndNotifies(t *testing.T) {
	svc, db := newSubscriptionFixture(t)
	user := createTestUser(t, db, models.UserRoleLandlord)
	plan := seedPlan(t, db, "basic", "monthly", 5, 1)

	overdue := &models.UserSubscription{
		UserID:    user.ID,
		PlanID:    plan.ID,
		Status:    models.SubscriptionStatusActive,
		StartDate: time.Now().AddDate(0, -2, 0),
		EndDate:   time.Now().AddDate(0, -1, 0),
	}
	require.NoError(t, db.Create(overdue).Error)
	seedActiveSubscription(t, db, user.ID, plan.ID)

	count, err := svc.ProcessExpired()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var reloaded models.UserSubscription
	require.NoError(t, db.First(&reloaded, "id = ?", overdue.ID).Error)
	assert.Equal(t, models.SubscriptionStatusExpired, reloaded.Status)

	// The user got an expiry notification.
	var notifications []models.Notification
	require.NoError(t, db.Where("user_id = ? AND type = ?", user.ID, models.NotificationTypeSubscription).Find(&notifications).Error)
	assert.Len(t, notifications, 1)

	// A second sweep finds nothing.
	count, err = svc.ProcessExpired()
	require.NoError(t, err)
	assert.Zero(t, count)
}
