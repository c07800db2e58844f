package services

import (
	"errors"
	"time"

	"rent4u_backend/internal/dto"
	"rent4u_backend/internal/logger"
	"rent4u_backend/internal/models"
	"rent4u_backend/internal/repositories"
	"rent4u_backend/pkg/apperrors"
)

// freeLimits applies when a landlord has no active paid plan.
var freeLimits = models.PlanLimits{MaxListings: 1, MaxFeatured: 0}

type SubscriptionService interface {
	GetPlans() ([]dto.PlanResponse, error)
	Subscribe(userID string, req *dto.SubscribeRequest) (*dto.SubscriptionResponse, error)
	Cancel(userID string) error
	GetCurrent(userID string) (*dto.SubscriptionResponse, error)
	GetUsage(userID string) (*dto.UsageResponse, error)

	// Quota checks consulted by the property service.
	CanCreateListing(userID string) (bool, error)
	CanFeatureListing(userID string) (bool, error)

	// ProcessExpired sweeps overdue subscriptions. Called by the
	// background worker and returns the number expired.
	ProcessExpired() (int, error)
}

type subscriptionService struct {
	subscriptionRepo repositories.SubscriptionRepository
	propertyRepo     repositories.PropertyRepository
	userRepo         repositories.UserRepository
	notificationSvc  NotificationService
	mailer           EmailSender
}

// EmailSender is the slice of the mail provider the subscription flow
// needs.
type EmailSender interface {
	SendSubscriptionExpired(to, planName string) error
}

func NewSubscriptionService(
	subscriptionRepo repositories.SubscriptionRepository,
	propertyRepo repositories.PropertyRepository,
	userRepo repositories.UserRepository,
	notificationSvc NotificationService,
	mailer EmailSender,
) SubscriptionService {
	return &subscriptionService{
		subscriptionRepo: subscriptionRepo,
		propertyRepo:     propertyRepo,
		userRepo:         userRepo,
		notificationSvc:  notificationSvc,
		mailer:           mailer,
	}
}

func (s *subscriptionService) GetPlans() ([]dto.PlanResponse, error) {
	plans, err := s.subscriptionRepo.FindActivePlans()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]dto.PlanResponse, 0, len(plans))
	for i := range plans {
		out = append(out, dto.NewPlanResponse(&plans[i]))
	}
	return out, nil
}

func (s *subscriptionService) Subscribe(userID string, req *dto.SubscribeRequest) (*dto.SubscriptionResponse, error) {
	plan, err := s.subscriptionRepo.FindPlanByID(req.PlanID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlanNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if !plan.IsActive {
		return nil, apperrors.ErrInvalidOperation("subscription", "Plan is no longer offered")
	}

	// One active subscription at a time.
	if _, err := s.subscriptionRepo.FindActiveByUser(userID); err == nil {
		return nil, apperrors.ErrConflict(nil, "subscription", "An active subscription already exists")
	} else if !errors.Is(err, repositories.ErrSubscriptionNotFound) {
		return nil, apperrors.InternalError(err)
	}

	now := time.Now()
	sub := &models.UserSubscription{
		UserID:    userID,
		PlanID:    plan.ID,
		Status:    models.SubscriptionStatusActive,
		StartDate: now,
		EndDate:   planEndDate(now, plan.Duration),
		AutoRenew: req.AutoRenew,
	}
	if err := s.subscriptionRepo.CreateSubscription(sub); err != nil {
		return nil, apperrors.InternalError(err)
	}
	sub.Plan = *plan

	resp := dto.NewSubscriptionResponse(sub)
	return &resp, nil
}

func (s *subscriptionService) Cancel(userID string) error {
	sub, err := s.subscriptionRepo.FindActiveByUser(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrSubscriptionNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	if err := s.subscriptionRepo.Cancel(sub.ID, time.Now()); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *subscriptionService) GetCurrent(userID string) (*dto.SubscriptionResponse, error) {
	sub, err := s.subscriptionRepo.FindActiveByUser(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrSubscriptionNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewSubscriptionResponse(sub)
	return &resp, nil
}

func (s *subscriptionService) GetUsage(userID string) (*dto.UsageResponse, error) {
	limits, err := s.currentLimits(userID)
	if err != nil {
		return nil, err
	}

	active, err := s.propertyRepo.CountActiveByOwner(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	featured, err := s.propertyRepo.CountFeaturedByOwner(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.UsageResponse{
		ActiveListings:   active,
		MaxListings:      limits.MaxListings,
		FeaturedListings: featured,
		MaxFeatured:      limits.MaxFeatured,
	}, nil
}

// Quota checks

func (s *subscriptionService) CanCreateListing(userID string) (bool, error) {
	limits, err := s.currentLimits(userID)
	if err != nil {
		return false, err
	}
	if limits.MaxListings < 0 {
		// Negative limit means unlimited.
		return true, nil
	}

	active, err := s.propertyRepo.CountActiveByOwner(userID)
	if err != nil {
		return false, apperrors.InternalError(err)
	}
	return active < int64(limits.MaxListings), nil
}

func (s *subscriptionService) CanFeatureListing(userID string) (bool, error) {
	limits, err := s.currentLimits(userID)
	if err != nil {
		return false, err
	}
	if limits.MaxFeatured < 0 {
		return true, nil
	}

	featured, err := s.propertyRepo.CountFeaturedByOwner(userID)
	if err != nil {
		return false, apperrors.InternalError(err)
	}
	return featured < int64(limits.MaxFeatured), nil
}

func (s *subscriptionService) currentLimits(userID string) (models.PlanLimits, error) {
	sub, err := s.subscriptionRepo.FindActiveByUser(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrSubscriptionNotFound) {
			return freeLimits, nil
		}
		return models.PlanLimits{}, apperrors.InternalError(err)
	}

	return sub.Plan.ParseLimits(), nil
}

// planEndDate maps a billing period name to the subscription end date.
// Unknown periods fall back to monthly.
func planEndDate(start time.Time, duration string) time.Time {
	switch duration {
	case "yearly":
		return start.AddDate(1, 0, 0)
	case "unlimited":
		return start.AddDate(100, 0, 0)
	default:
		return start.AddDate(0, 1, 0)
	}
}

// Worker support

func (s *subscriptionService) ProcessExpired() (int, error) {
	expired, err := s.subscriptionRepo.ExpireOverdue(time.Now())
	if err != nil {
		return 0, err
	}

	for i := range expired {
		sub := &expired[i]

		if err := s.notificationSvc.NotifySubscriptionExpired(sub.UserID, sub.Plan.Name); err != nil {
			logger.WithError(err).Warn("expiry notification failed", "user_id", sub.UserID)
		}

		user, err := s.userRepo.FindByID(sub.UserID)
		if err != nil {
			continue
		}
		if err := s.mailer.SendSubscriptionExpired(user.Email, sub.Plan.Name); err != nil {
			logger.WithError(err).Warn("expiry email failed", "user_id", sub.UserID)
		}
	}

	return len(expired), nil
}
