package services

import (
	"testing"
	"time"

	"rent4u_backend/internal/dto"
	"rent4u_backend/internal/email"
	"rent4u_backend/internal/models"
	"rent4u_backend/internal/repositories"
	"rent4u_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// countingBookingRepo wraps a real repository and counts how many calls
// reach the database layer.
type countingBookingRepo struct {
	repositories.BookingRepository
	calls int
}

func (c *countingBookingRepo) Create(b *models.Booking) error {
	c.calls++
	return c.BookingRepository.Create(b)
}

func (c *countingBookingRepo) FindBlocking(propertyID string, start, end time.Time) ([]models.Booking, error) {
	c.calls++
	return c.BookingRepository.FindBlocking(propertyID, start, end)
}

type countingPropertyRepo struct {
	repositories.PropertyRepository
	calls int
}

func (c *countingPropertyRepo) FindByID(id string) (*models.Property, error) {
	c.calls++
	return c.PropertyRepository.FindByID(id)
}

func newBookingFixture(t *testing.T) (BookingService, *gorm.DB, *countingBookingRepo, *countingPropertyRepo) {
	t.Helper()
	db := setupServiceDB(t)

	bookingRepo := &countingBookingRepo{BookingRepository: repositories.NewBookingRepository(db)}
	propertyRepo := &countingPropertyRepo{PropertyRepository: repositories.NewPropertyRepository(db)}

	svc := NewBookingService(
		bookingRepo,
		propertyRepo,
		repositories.NewUserRepository(db),
		newTestNotificationService(db),
		email.NoopProvider{},
	)
	return svc, db, bookingRepo, propertyRepo
}

func day(d int) time.Time {
	return time.Date(2026, time.January, d, 0, 0, 0, 0, time.UTC)
}

func seedBooking(t *testing.T, db *gorm.DB, propertyID, tenantID string, start, end time.Time, status models.BookingStatus) {
	t.Helper()
	require.NoError(t, db.Create(&models.Booking{
		PropertyID:  propertyID,
		TenantID:    tenantID,
		StartDate:   start,
		EndDate:     end,
		Status:      status,
		TotalAmount: 100,
	}).Error)
}

func TestCheckAvailability_ClosedIntervalCalendar(t *testing.T) {
	svc, db, _, _ := newBookingFixture(t)

	landlord := createTestUser(t, db, models.UserRoleLandlord)
	tenant := createTestUser(t, db, models.UserRoleTenant)
	property := createTestProperty(t, db, landlord.ID, 100)

	seedBooking(t, db, property.ID, tenant.ID, day(1), day(5), models.BookingStatusConfirmed)
	seedBooking(t, db, property.ID, tenant.ID, day(10), day(15), models.BookingStatusPending)

	cases := []struct {
		name      string
		start     int
		end       int
		available bool
	}{
		{"inside first booking", 2, 4, false},
		{"checkout day still blocked", 5, 7, false},
		{"gap between bookings", 6, 9, true},
		{"touches second booking start", 8, 10, false},
		{"spans both bookings", 3, 12, false},
		{"after everything", 16, 20, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			available, err := svc.CheckAvailability(property.ID, day(tc.start), day(tc.end))
			require.NoError(t, err)
			assert.Equal(t, tc.available, available)
		})
	}
}

func TestCheckAvailability_CancelledBookingsDoNotBlock(t *testing.T) {
	svc, db, _, _ := newBookingFixture(t)

	landlord := createTestUser(t, db, models.UserRoleLandlord)
	tenant := createTestUser(t, db, models.UserRoleTenant)
	property := createTestProperty(t, db, landlord.ID, 100)

	seedBooking(t, db, property.ID, tenant.ID, day(1), day(5), models.BookingStatusCancelled)

	available, err := svc.CheckAvailability(property.ID, day(2), day(4))
	require.NoError(t, err)
	assert.True(t, available)
}

func TestCreateBooking_InvalidRangeNeverTouchesDatabase(t *testing.T) {
	svc, _, bookingRepo, propertyRepo := newBookingFixture(t)

	cases := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{"end before start", day(10), day(5)},
		{"zero length", day(10), day(10)},
		{"zero dates", time.Time{}, time.Time{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create("tenant-1", &dto.CreateBookingRequest{
				PropertyID: "irrelevant",
				StartDate:  tc.start,
				EndDate:    tc.end,
			})
			require.Error(t, err)

			var appErr *apperrors.AppError
			require.True(t, apperrors.As(err, &appErr))
			assert.Equal(t, 400, appErr.HTTPCode)
		})
	}

	assert.Zero(t, bookingRepo.calls)
	assert.Zero(t, propertyRepo.calls)
}

func TestCreateBooking_ComputesTotalFromRentalDays(t *testing.T) {
	svc, db, _, _ := newBookingFixture(t)

	landlord := createTestUser(t, db, models.UserRoleLandlord)
	tenant := createTestUser(t, db, models.UserRoleTenant)
	property := createTestProperty(t, db, landlord.ID, 80)

	resp, err := svc.Create(tenant.ID, &dto.CreateBookingRequest{
		PropertyID: property.ID,
		StartDate:  day(1),
		EndDate:    day(5),
	})
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusPending, resp.Status)
	assert.Equal(t, 4*80.0, resp.TotalAmount)
	assert.Equal(t, "GBP", resp.Currency)
}

func TestCreateBooking_RejectsOverlapAndOwnProperty(t *testing.T) {
	svc, db, _, _ := newBookingFixture(t)

	landlord := createTestUser(t, db, models.UserRoleLandlord)
	tenant := createTestUser(t, db, models.UserRoleTenant)
	property := createTestProperty(t, db, landlord.ID, 100)

	seedBooking(t, db, property.ID, tenant.ID, day(1), day(5), models.BookingStatusConfirmed)

	_, err := svc.Create(tenant.ID, &dto.CreateBookingRequest{
		PropertyID: property.ID,
		StartDate:  day(4),
		EndDate:    day(8),
	})
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 409, appErr.HTTPCode)

	_, err = svc.Create(landlord.ID, &dto.CreateBookingRequest{
		PropertyID: property.ID,
		StartDate:  day(20),
		EndDate:    day(22),
	})
	require.Error(t, err)
}

func TestCreateBooking_UnpublishedPropertyRejected(t *testing.T) {
	svc, db, _, _ := newBookingFixture(t)

	landlord := createTestUser(t, db, models.UserRoleLandlord)
	tenant := createTestUser(t, db, models.UserRoleTenant)
	property := createTestProperty(t, db, landlord.ID, 100)
	require.NoError(t, db.Model(property).Update("status", models.PropertyStatusDraft).Error)

	_, err := svc.Create(tenant.ID, &dto.CreateBookingRequest{
		PropertyID: property.ID,
		StartDate:  day(1),
		EndDate:    day(3),
	})
	require.Error(t, err)
}

func TestQuote_RoundsPartialDaysUp(t *testing.T) {
	svc, db, _, _ := newBookingFixture(t)

	landlord := createTestUser(t, db, models.UserRoleLandlord)
	property := createTestProperty(t, db, landlord.ID, 50)

	start := day(1)
	end := day(3).Add(6 * time.Hour)

	quote, err := svc.Quote(property.ID, start, end)
	require.NoError(t, err)
	assert.Equal(t, 3, quote.Days)
	assert.Equal(t, 150.0, quote.Total)
	assert.Equal(t, 50.0, quote.Rate)
}

func TestBookedDates_ReturnsBlockingRangesOnly(t *testing.T) {
	svc, db, _, _ := newBookingFixture(t)

	landlord := createTestUser(t, db, models.UserRoleLandlord)
	tenant := createTestUser(t, db, models.UserRoleTenant)
	property := createTestProperty(t, db, landlord.ID, 100)

	seedBooking(t, db, property.ID, tenant.ID, day(1), day(5), models.BookingStatusConfirmed)
	seedBooking(t, db, property.ID, tenant.ID, day(10), day(15), models.BookingStatusPending)
	seedBooking(t, db, property.ID, tenant.ID, day(20), day(25), models.BookingStatusCancelled)

	resp, err := svc.BookedDates(property.ID)
	require.NoError(t, err)
	require.Len(t, resp.Ranges, 2)
	assert.True(t, resp.Ranges[0].StartDate.Equal(day(1)))
	assert.True(t, resp.Ranges[1].StartDate.Equal(day(10)))
}

func TestUpdateStatus_RoleAndTransitionRules(t *testing.T) {
	svc, db, _, _ := newBookingFixture(t)

	landlord := createTestUser(t, db, models.UserRoleLandlord)
	tenant := createTestUser(t, db, models.UserRoleTenant)
	stranger := createTestUser(t, db, models.UserRoleTenant)
	property := createTestProperty(t, db, landlord.ID, 100)

	resp, err := svc.Create(tenant.ID, &dto.CreateBookingRequest{
		PropertyID: property.ID,
		StartDate:  day(1),
		EndDate:    day(3),
	})
	require.NoError(t, err)

	// Tenant may not confirm.
	_, err = svc.UpdateStatus(tenant.ID, resp.ID, models.BookingStatusConfirmed)
	require.Error(t, err)

	// Stranger may not cancel.
	_, err = svc.UpdateStatus(stranger.ID, resp.ID, models.BookingStatusCancelled)
	require.Error(t, err)

	// Landlord confirms.
	updated, err := svc.UpdateStatus(landlord.ID, resp.ID, models.BookingStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, updated.Status)

	// Confirmed cannot go back to pending-only transitions.
	_, err = svc.UpdateStatus(landlord.ID, resp.ID, models.BookingStatusConfirmed)
	require.Error(t, err)

	// Landlord completes the stay.
	updated, err = svc.UpdateStatus(landlord.ID, resp.ID, models.BookingStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, updated.Status)

	// Completed is terminal.
	_, err = svc.UpdateStatus(landlord.ID, resp.ID, models.BookingStatusCancelled)
	require.Error(t, err)
}
