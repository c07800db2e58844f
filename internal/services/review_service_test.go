package services

import (
	"testing"

	"rent4u_backend/internal/dto"
	"rent4u_backend/internal/models"
	"rent4u_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReviewFixture(t *testing.T) (ReviewService, *gorm.DB) {
	t.Helper()
	db := setupServiceDB(t)
	svc := NewReviewService(
		repositories.NewReviewRepository(db),
		repositories.NewBookingRepository(db),
		repositories.NewPropertyRepository(db),
		newTestNotificationService(db),
	)
	return svc, db
}

func seedCompletedStay(t *testing.T, db *gorm.DB, tenantID, propertyID string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Booking{
		PropertyID:  propertyID,
		TenantID:    tenantID,
		StartDate:   day(1),
		EndDate:     day(5),
		Status:      models.BookingStatusCompleted,
		TotalAmount: 400,
	}).Error)
}

func TestCreateReview_RequiresCompletedStay(t *testing.T) {
	svc, db := newReviewFixture(t)

	landlord := createTestUser(t, db, models.UserRoleLandlord)
	tenant := createTestUser(t, db, models.UserRoleTenant)
	property := createTestProperty(t, db, landlord.ID, 100)

	_, err := svc.Create(tenant.ID, &dto.CreateReviewRequest{
		PropertyID: property.ID,
		Rating:     5,
		Comment:    "great",
	})
	require.Error(t, err)

	// A pending booking is not enough.
	require.NoError(t, db.Create(&models.Booking{
		PropertyID: property.ID,
		TenantID:   tenant.ID,
		StartDate:  day(1),
		EndDate:    day(5),
		Status:     models.BookingStatusPending,
	}).Error)
	_, err = svc.Create(tenant.ID, &dto.CreateReviewRequest{PropertyID: property.ID, Rating: 5})
	require.Error(t, err)

	seedCompletedStay(t, db, tenant.ID, property.ID)

	resp, err := svc.Create(tenant.ID, &dto.CreateReviewRequest{PropertyID: property.ID, Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusPending, resp.Status)
}

func TestCreateReview_OnePerTenantAndProperty(t *testing.T) {
	svc, db := newReviewFixture(t)

	landlord := createTestUser(t, db, models.UserRoleLandlord)
	tenant := createTestUser(t, db, models.UserRoleTenant)
	property := createTestProperty(t, db, landlord.ID, 100)
	seedCompletedStay(t, db, tenant.ID, property.ID)

	_, err := svc.Create(tenant.ID, &dto.CreateReviewRequest{PropertyID: property.ID, Rating: 4})
	require.NoError(t, err)

	_, err = svc.Create(tenant.ID, &dto.CreateReviewRequest{PropertyID: property.ID, Rating: 5})
	require.Error(t, err)
}

func TestModerate_ApprovalUpdatesPropertyRating(t *testing.T) {
	svc, db := newReviewFixture(t)

	landlord := createTestUser(t, db, models.UserRoleLandlord)
	property := createTestProperty(t, db, landlord.ID, 100)

	tenants := make([]*models.User, 2)
	ratings := []int{5, 3}
	reviewIDs := make([]string, 2)
	for i := range tenants {
		tenants[i] = createTestUser(t, db, models.UserRoleTenant)
		seedCompletedStay(t, db, tenants[i].ID, property.ID)
		resp, err := svc.Create(tenants[i].ID, &dto.CreateReviewRequest{
			PropertyID: property.ID,
			Rating:     ratings[i],
		})
		require.NoError(t, err)
		reviewIDs[i] = resp.ID
	}

	// Pending reviews are invisible and contribute nothing.
	listed, total, err := svc.ListByProperty(property.ID, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, listed)
	assert.Zero(t, total)

	_, err = svc.Moderate(reviewIDs[0], models.ReviewStatusApproved)
	require.NoError(t, err)

	var reloaded models.Property
	require.NoError(t, db.First(&reloaded, "id = ?", property.ID).Error)
	assert.Equal(t, 5.0, reloaded.Rating)

	_, err = svc.Moderate(reviewIDs[1], models.ReviewStatusApproved)
	require.NoError(t, err)

	require.NoError(t, db.First(&reloaded, "id = ?", property.ID).Error)
	assert.Equal(t, 4.0, reloaded.Rating)

	listed, total, err = svc.ListByProperty(property.ID, 1, 20)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
	assert.EqualValues(t, 2, total)

	// Moderation is one-shot.
	_, err = svc.Moderate(reviewIDs[0], models.ReviewStatusRejected)
	require.Error(t, err)
}

func TestDeleteReview_OwnershipAndRatingRecalc(t *testing.T) {
	svc, db := newReviewFixture(t)

	landlord := createTestUser(t, db, models.UserRoleLandlord)
	tenant := createTestUser(t, db, models.UserRoleTenant)
	property := createTestProperty(t, db, landlord.ID, 100)
	seedCompletedStay(t, db, tenant.ID, property.ID)

	resp, err := svc.Create(tenant.ID, &dto.CreateReviewRequest{PropertyID: property.ID, Rating: 5})
	require.NoError(t, err)
	_, err = svc.Moderate(resp.ID, models.ReviewStatusApproved)
	require.NoError(t, err)

	require.Error(t, svc.Delete(landlord.ID, resp.ID))
	require.NoError(t, svc.Delete(tenant.ID, resp.ID))

	// With no approved reviews left the rating falls back to zero.
	var reloaded models.Property
	require.NoError(t, db.First(&reloaded, "id = ?", property.ID).Error)
	assert.Zero(t, reloaded.Rating)
}
