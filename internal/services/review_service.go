package services

import (
	"errors"

	"rent4u_backend/internal/dto"
	"rent4u_backend/internal/logger"
	"rent4u_backend/internal/models"
	"rent4u_backend/internal/repositories"
	"rent4u_backend/pkg/apperrors"
)

type ReviewService interface {
	Create(tenantID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	ListByProperty(propertyID string, page, pageSize int) ([]dto.ReviewResponse, int64, error)
	Moderate(id string, status models.ReviewStatus) (*dto.ReviewResponse, error)
	Delete(userID, id string) error
}

type reviewService struct {
	reviewRepo      repositories.ReviewRepository
	bookingRepo     repositories.BookingRepository
	propertyRepo    repositories.PropertyRepository
	notificationSvc NotificationService
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	bookingRepo repositories.BookingRepository,
	propertyRepo repositories.PropertyRepository,
	notificationSvc NotificationService,
) ReviewService {
	return &reviewService{
		reviewRepo:      reviewRepo,
		bookingRepo:     bookingRepo,
		propertyRepo:    propertyRepo,
		notificationSvc: notificationSvc,
	}
}

func (s *reviewService) Create(tenantID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	property, err := s.propertyRepo.FindByID(req.PropertyID)
	if err != nil {
		if errors.Is(err, repositories.ErrPropertyNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	// Only tenants who completed a stay may review.
	stayed, err := s.bookingRepo.HasCompletedStay(tenantID, req.PropertyID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !stayed {
		return nil, apperrors.ErrInvalidOperation("review", "Reviews require a completed stay")
	}

	review := &models.Review{
		PropertyID: req.PropertyID,
		TenantID:   tenantID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		Status:     models.ReviewStatusPending,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		if errors.Is(err, repositories.ErrReviewAlreadyExists) {
			return nil, apperrors.ErrAlreadyExists(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.notificationSvc.NotifyNewReview(property.OwnerID, property.Title, review.Rating); err != nil {
		logger.WithError(err).Warn("review notification failed", "review_id", review.ID)
	}

	resp := dto.NewReviewResponse(review)
	return &resp, nil
}

func (s *reviewService) ListByProperty(propertyID string, page, pageSize int) ([]dto.ReviewResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	reviews, total, err := s.reviewRepo.FindByProperty(propertyID, page, pageSize)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	out := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, dto.NewReviewResponse(&reviews[i]))
	}
	return out, total, nil
}

func (s *reviewService) Moderate(id string, status models.ReviewStatus) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrReviewNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if review.Status != models.ReviewStatusPending {
		return nil, apperrors.ErrInvalidStatus("review", "Review was already moderated")
	}

	if err := s.reviewRepo.UpdateStatus(id, status); err != nil {
		return nil, apperrors.InternalError(err)
	}
	review.Status = status

	// Approval changes the property's visible rating.
	if status == models.ReviewStatusApproved {
		s.recalculateRating(review.PropertyID)
	}

	resp := dto.NewReviewResponse(review)
	return &resp, nil
}

func (s *reviewService) Delete(userID, id string) error {
	review, err := s.reviewRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrReviewNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	if review.TenantID != userID {
		return apperrors.NewForbiddenError("Not your review")
	}

	wasApproved := review.Status == models.ReviewStatusApproved
	if err := s.reviewRepo.Delete(id); err != nil {
		return apperrors.InternalError(err)
	}
	if wasApproved {
		s.recalculateRating(review.PropertyID)
	}
	return nil
}

func (s *reviewService) recalculateRating(propertyID string) {
	avg, err := s.reviewRepo.AverageApprovedRating(propertyID)
	if err != nil {
		logger.WithError(err).Error("rating recalculation failed", "property_id", propertyID)
		return
	}
	if err := s.propertyRepo.UpdateRating(propertyID, avg); err != nil {
		logger.WithError(err).Error("rating update failed", "property_id", propertyID)
	}
}
