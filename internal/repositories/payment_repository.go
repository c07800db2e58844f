package repositories

import (
	"errors"
	"time"

	"rent4u_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPaymentNotFound = errors.New("payment not found")

type PaymentRepository interface {
	Create(payment *models.Payment) error
	FindByID(id string) (*models.Payment, error)
	FindByTransactionID(transactionID string) (*models.Payment, error)
	FindByBooking(bookingID string) ([]models.Payment, error)
	FindByUser(userID string, page, pageSize int) ([]models.Payment, int64, error)
	MarkCompleted(id string, paidAt time.Time) error
	MarkFailed(id string) error
	MarkRefunded(id string) error
}

type PaymentRepositoryImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &PaymentRepositoryImpl{db: db}
}

func (r *PaymentRepositoryImpl) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

func (r *PaymentRepositoryImpl) FindByID(id string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.First(&payment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepositoryImpl) FindByTransactionID(transactionID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.First(&payment, "transaction_id = ?", transactionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepositoryImpl) FindByBooking(bookingID string) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("booking_id = ?", bookingID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *PaymentRepositoryImpl) FindByUser(userID string, page, pageSize int) ([]models.Payment, int64, error) {
	var payments []models.Payment
	query := r.db.Where("user_id = ?", userID)

	var total int64
	if err := query.Model(&models.Payment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&payments).Error

	return payments, total, err
}

func (r *PaymentRepositoryImpl) MarkCompleted(id string, paidAt time.Time) error {
	return r.updateStatus(id, map[string]interface{}{
		"status":  models.PaymentStatusCompleted,
		"paid_at": paidAt,
	})
}

func (r *PaymentRepositoryImpl) MarkFailed(id string) error {
	return r.updateStatus(id, map[string]interface{}{
		"status": models.PaymentStatusFailed,
	})
}

func (r *PaymentRepositoryImpl) MarkRefunded(id string) error {
	return r.updateStatus(id, map[string]interface{}{
		"status": models.PaymentStatusRefunded,
	})
}

func (r *PaymentRepositoryImpl) updateStatus(id string, fields map[string]interface{}) error {
	result := r.db.Model(&models.Payment{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}
