package repositories

import (
	"errors"
	"time"

	"rent4u_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrPlanNotFound         = errors.New("subscription plan not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

type SubscriptionRepository interface {
	CreatePlan(plan *models.SubscriptionPlan) error
	FindPlanByID(id string) (*models.SubscriptionPlan, error)
	FindPlanByName(name string) (*models.SubscriptionPlan, error)
	FindActivePlans() ([]models.SubscriptionPlan, error)

	CreateSubscription(sub *models.UserSubscription) error
	FindActiveByUser(userID string) (*models.UserSubscription, error)
	FindByUser(userID string) ([]models.UserSubscription, error)
	Cancel(id string, at time.Time) error
	// ExpireOverdue moves every active subscription whose end date has
	// passed to expired and returns the affected rows.
	ExpireOverdue(now time.Time) ([]models.UserSubscription, error)
}

type SubscriptionRepositoryImpl struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &SubscriptionRepositoryImpl{db: db}
}

// Plan operations

func (r *SubscriptionRepositoryImpl) CreatePlan(plan *models.SubscriptionPlan) error {
	return r.db.Create(plan).Error
}

func (r *SubscriptionRepositoryImpl) FindPlanByID(id string) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	err := r.db.First(&plan, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *SubscriptionRepositoryImpl) FindPlanByName(name string) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	err := r.db.First(&plan, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *SubscriptionRepositoryImpl) FindActivePlans() ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	err := r.db.Where("is_active = ?", true).Order("price ASC").Find(&plans).Error
	return plans, err
}

// Subscription operations

func (r *SubscriptionRepositoryImpl) CreateSubscription(sub *models.UserSubscription) error {
	return r.db.Create(sub).Error
}

func (r *SubscriptionRepositoryImpl) FindActiveByUser(userID string) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := r.db.Preload("Plan").
		Where("user_id = ? AND status = ? AND end_date > ?",
			userID, models.SubscriptionStatusActive, time.Now()).
		Order("end_date DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepositoryImpl) FindByUser(userID string) ([]models.UserSubscription, error) {
	var subs []models.UserSubscription
	err := r.db.Preload("Plan").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subs).Error
	return subs, err
}

func (r *SubscriptionRepositoryImpl) Cancel(id string, at time.Time) error {
	result := r.db.Model(&models.UserSubscription{}).
		Where("id = ? AND status = ?", id, models.SubscriptionStatusActive).
		Updates(map[string]interface{}{
			"status":       models.SubscriptionStatusCancelled,
			"cancelled_at": at,
			"auto_renew":   false,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) ExpireOverdue(now time.Time) ([]models.UserSubscription, error) {
	var overdue []models.UserSubscription
	err := r.db.Preload("Plan").
		Where("status = ? AND end_date <= ?", models.SubscriptionStatusActive, now).
		Find(&overdue).Error
	if err != nil {
		return nil, err
	}
	if len(overdue) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(overdue))
	for _, sub := range overdue {
		ids = append(ids, sub.ID)
	}

	err = r.db.Model(&models.UserSubscription{}).
		Where("id IN ?", ids).
		Update("status", models.SubscriptionStatusExpired).Error
	if err != nil {
		return nil, err
	}

	return overdue, nil
}
