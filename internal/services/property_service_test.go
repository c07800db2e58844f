package services

import (
	"testing"

	"rent4u_backend/internal/dto"
	"rent4u_backend/internal/email"
	"rent4u_backend/internal/models"
	"rent4u_backend/internal/repositories"
	"rent4u_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPropertyFixture(t *testing.T) (PropertyService, *gorm.DB) {
	t.Helper()
	db := setupServiceDB(t)

	subscriptionSvc := NewSubscriptionService(
		repositories.NewSubscriptionRepository(db),
		repositories.NewPropertyRepository(db),
		repositories.NewUserRepository(db),
		newTestNotificationService(db),
		email.NoopProvider{},
	)
	svc := NewPropertyService(repositories.NewPropertyRepository(db), subscriptionSvc)
	return svc, db
}

func createPropertyRequest(title string) *dto.CreatePropertyRequest {
	return &dto.CreatePropertyRequest{
		Title: title,
		Type:  "apartment",
		Price: 1200,
		Location: dto.PropertyLocation{
			Address: "1 Test Street",
			City:    "London",
			Country: "UK",
		},
		Features:  dto.PropertyFeatures{Bedrooms: 2, Bathrooms: 1, Area: 60},
		Amenities: []string{"wifi", "washer"},
	}
}

func TestPropertyCreate_StartsAsDraft(t *testing.T) {
	svc, db := newPropertyFixture(t)
	landlord := createTestUser(t, db, models.UserRoleLandlord)

	resp, err := svc.Create(landlord.ID, createPropertyRequest("Cosy loft"))
	require.NoError(t, err)
	assert.Equal(t, models.PropertyStatusDraft, resp.Status)
	assert.Equal(t, "GBP", resp.Currency)
	assert.Equal(t, []string{"wifi", "washer"}, resp.Amenities)

	// A draft is not visible to other viewers.
	_, err = svc.Get(resp.ID, "someone-else")
	require.Error(t, err)

	got, err := svc.Get(resp.ID, landlord.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cosy loft", got.Title)
}

func TestPropertyPublish_EnforcesQuotaAndIsIdempotent(t *testing.T) {
	svc, db := newPropertyFixture(t)
	landlord := createTestUser(t, db, models.UserRoleLandlord)

	first, err := svc.Create(landlord.ID, createPropertyRequest("First"))
	require.NoError(t, err)
	second, err := svc.Create(landlord.ID, createPropertyRequest("Second"))
	require.NoError(t, err)

	require.NoError(t, svc.Publish(landlord.ID, first.ID))
	// Publishing again is a no-op, not a second quota charge.
	require.NoError(t, svc.Publish(landlord.ID, first.ID))

	// Free tier allows a single published listing.
	err = svc.Publish(landlord.ID, second.ID)
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 402, appErr.HTTPCode)
}

func TestPropertySearch_OnlyPublishedVisible(t *testing.T) {
	svc, db := newPropertyFixture(t)
	landlord := createTestUser(t, db, models.UserRoleLandlord)

	_, err := svc.Create(landlord.ID, createPropertyRequest("Draft"))
	require.NoError(t, err)
	published, err := svc.Create(landlord.ID, createPropertyRequest("Published"))
	require.NoError(t, err)
	require.NoError(t, svc.Publish(landlord.ID, published.ID))

	results, total, err := svc.Search(&dto.PropertyFilterRequest{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, results, 1)
	assert.Equal(t, published.ID, results[0].ID)

	// The owner still sees both in their own list.
	mine, total, err := svc.ListByOwner(landlord.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, mine, 2)
}

func TestPropertyUpdate_OwnerOnly(t *testing.T) {
	svc, db := newPropertyFixture(t)
	landlord := createTestUser(t, db, models.UserRoleLandlord)
	other := createTestUser(t, db, models.UserRoleLandlord)

	created, err := svc.Create(landlord.ID, createPropertyRequest("Mine"))
	require.NoError(t, err)

	newTitle := "Renamed"
	_, err = svc.Update(other.ID, created.ID, &dto.UpdatePropertyRequest{Title: &newTitle})
	require.Error(t, err)

	newPrice := 1500.0
	updated, err := svc.Update(landlord.ID, created.ID, &dto.UpdatePropertyRequest{
		Title: &newTitle,
		Price: &newPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, 1500.0, updated.Price)
	// Untouched fields survive a partial update.
	assert.Equal(t, []string{"wifi", "washer"}, updated.Amenities)
}

func TestSetFeatured_RequiresPlanAllowance(t *testing.T) {
	svc, db := newPropertyFixture(t)
	landlord := createTestUser(t, db, models.UserRoleLandlord)

	created, err := svc.Create(landlord.ID, createPropertyRequest("Mine"))
	require.NoError(t, err)

	// The free tier cannot feature.
	err = svc.SetFeatured(landlord.ID, created.ID, true)
	require.Error(t, err)

	plan := seedPlan(t, db, "pro", "monthly", 25, 5)
	seedActiveSubscription(t, db, landlord.ID, plan.ID)

	require.NoError(t, svc.SetFeatured(landlord.ID, created.ID, true))

	// Unfeaturing never consults the quota.
	require.NoError(t, svc.SetFeatured(landlord.ID, created.ID, false))
}

func TestAddImage_MainFlagIsExclusive(t *testing.T) {
	svc, db := newPropertyFixture(t)
	landlord := createTestUser(t, db, models.UserRoleLandlord)

	created, err := svc.Create(landlord.ID, createPropertyRequest("Mine"))
	require.NoError(t, err)

	_, err = svc.AddImage(landlord.ID, created.ID, &dto.AddImageRequest{
		URL: "https://img/1.jpg", IsMain: true,
	})
	require.NoError(t, err)

	withSecond, err := svc.AddImage(landlord.ID, created.ID, &dto.AddImageRequest{
		URL: "https://img/2.jpg", IsMain: true, DisplayOrder: 1,
	})
	require.NoError(t, err)
	require.Len(t, withSecond.Images, 2)

	mainCount := 0
	for _, img := range withSecond.Images {
		if img.IsMain {
			mainCount++
			assert.Equal(t, "https://img/2.jpg", img.URL)
		}
	}
	assert.Equal(t, 1, mainCount)
}

func TestPropertyDelete_RemovesImagesToo(t *testing.T) {
	svc, db := newPropertyFixture(t)
	landlord := createTestUser(t, db, models.UserRoleLandlord)

	created, err := svc.Create(landlord.ID, createPropertyRequest("Mine"))
	require.NoError(t, err)
	_, err = svc.AddImage(landlord.ID, created.ID, &dto.AddImageRequest{URL: "https://img/1.jpg"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(landlord.ID, created.ID))

	var imageCount int64
	require.NoError(t, db.Model(&models.PropertyImage{}).
		Where("property_id = ?", created.ID).Count(&imageCount).Error)
	assert.Zero(t, imageCount)
}
