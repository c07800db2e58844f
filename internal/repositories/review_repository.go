package repositories

import (
	"errors"

	"rent4u_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewAlreadyExists = errors.New("review already exists")
)

type ReviewRepository interface {
	Create(review *models.Review) error
	FindByID(id string) (*models.Review, error)
	FindByProperty(propertyID string, page, pageSize int) ([]models.Review, int64, error)
	FindByTenantAndProperty(tenantID, propertyID string) (*models.Review, error)
	UpdateStatus(id string, status models.ReviewStatus) error
	// AverageApprovedRating returns the mean rating over approved
	// reviews, zero when there are none.
	AverageApprovedRating(propertyID string) (float64, error)
	Delete(id string) error
}

type ReviewRepositoryImpl struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &ReviewRepositoryImpl{db: db}
}

func (r *ReviewRepositoryImpl) Create(review *models.Review) error {
	existing, err := r.FindByTenantAndProperty(review.TenantID, review.PropertyID)
	if err != nil && !errors.Is(err, ErrReviewNotFound) {
		return err
	}
	if existing != nil {
		return ErrReviewAlreadyExists
	}
	return r.db.Create(review).Error
}

func (r *ReviewRepositoryImpl) FindByID(id string) (*models.Review, error) {
	var review models.Review
	err := r.db.First(&review, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) FindByProperty(propertyID string, page, pageSize int) ([]models.Review, int64, error) {
	var reviews []models.Review
	query := r.db.Where("property_id = ? AND status = ?", propertyID, models.ReviewStatusApproved)

	var total int64
	if err := query.Model(&models.Review{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&reviews).Error

	return reviews, total, err
}

func (r *ReviewRepositoryImpl) FindByTenantAndProperty(tenantID, propertyID string) (*models.Review, error) {
	var review models.Review
	err := r.db.First(&review, "tenant_id = ? AND property_id = ?", tenantID, propertyID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) UpdateStatus(id string, status models.ReviewStatus) error {
	result := r.db.Model(&models.Review{}).Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepositoryImpl) AverageApprovedRating(propertyID string) (float64, error) {
	var avg *float64
	err := r.db.Model(&models.Review{}).
		Where("property_id = ? AND status = ?", propertyID, models.ReviewStatusApproved).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

func (r *ReviewRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Review{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}
