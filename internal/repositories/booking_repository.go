package repositories

import (
	"errors"
	"time"

	"rent4u_backend/internal/models"

	"gorm.io/gorm"
)

var ErrBookingNotFound = errors.New("booking not found")

type BookingRepository interface {
	Create(booking *models.Booking) error
	FindByID(id string) (*models.Booking, error)
	FindByTenant(tenantID string, page, pageSize int) ([]models.Booking, int64, error)
	FindByProperty(propertyID string, page, pageSize int) ([]models.Booking, int64, error)
	// FindBlocking returns every pending or confirmed booking on the
	// property whose closed date interval intersects [start, end].
	FindBlocking(propertyID string, start, end time.Time) ([]models.Booking, error)
	// FindBlockingRanges returns the blocked intervals for the whole
	// calendar, newest bookings last.
	FindBlockingRanges(propertyID string) ([]models.Booking, error)
	UpdateStatus(id string, status models.BookingStatus) error
	UpdatePaymentStatus(id string, status models.BookingPaymentStatus) error
	HasCompletedStay(tenantID, propertyID string) (bool, error)
}

type BookingRepositoryImpl struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &BookingRepositoryImpl{db: db}
}

func (r *BookingRepositoryImpl) Create(booking *models.Booking) error {
	return r.db.Create(booking).Error
}

func (r *BookingRepositoryImpl) FindByID(id string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.Preload("Property").First(&booking, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepositoryImpl) FindByTenant(tenantID string, page, pageSize int) ([]models.Booking, int64, error) {
	var bookings []models.Booking
	query := r.db.Where("tenant_id = ?", tenantID)

	var total int64
	if err := query.Model(&models.Booking{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Property").
		Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&bookings).Error

	return bookings, total, err
}

func (r *BookingRepositoryImpl) FindByProperty(propertyID string, page, pageSize int) ([]models.Booking, int64, error) {
	var bookings []models.Booking
	query := r.db.Where("property_id = ?", propertyID)

	var total int64
	if err := query.Model(&models.Booking{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("start_date ASC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&bookings).Error

	return bookings, total, err
}

func (r *BookingRepositoryImpl) FindBlocking(propertyID string, start, end time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	// Closed-interval overlap: existing.start <= end AND existing.end >= start.
	// The checkout day of one booking therefore blocks the check-in day of
	// the next.
	err := r.db.
		Where("property_id = ? AND status IN ?", propertyID,
			[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusConfirmed}).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Find(&bookings).Error
	return bookings, err
}

func (r *BookingRepositoryImpl) FindBlockingRanges(propertyID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.
		Where("property_id = ? AND status IN ?", propertyID,
			[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusConfirmed}).
		Order("start_date ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *BookingRepositoryImpl) UpdateStatus(id string, status models.BookingStatus) error {
	result := r.db.Model(&models.Booking{}).Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepositoryImpl) UpdatePaymentStatus(id string, status models.BookingPaymentStatus) error {
	result := r.db.Model(&models.Booking{}).Where("id = ?", id).
		Update("payment_status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepositoryImpl) HasCompletedStay(tenantID, propertyID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Booking{}).
		Where("tenant_id = ? AND property_id = ? AND status = ?",
			tenantID, propertyID, models.BookingStatusCompleted).
		Count(&count).Error
	return count > 0, err
}
