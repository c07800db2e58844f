package services

import (
	"errors"
	"math"
	"time"

	"rent4u_backend/internal/dto"
	"rent4u_backend/internal/email"
	"rent4u_backend/internal/logger"
	"rent4u_backend/internal/models"
	"rent4u_backend/internal/repositories"
	"rent4u_backend/pkg/apperrors"
)

type BookingService interface {
	Create(tenantID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	Get(userID, id string) (*dto.BookingResponse, error)
	ListByTenant(tenantID string, page, pageSize int) ([]dto.BookingResponse, int64, error)
	ListByProperty(ownerID, propertyID string, page, pageSize int) ([]dto.BookingResponse, int64, error)
	CheckAvailability(propertyID string, start, end time.Time) (bool, error)
	BookedDates(propertyID string) (*dto.BookedDatesResponse, error)
	Quote(propertyID string, start, end time.Time) (*dto.QuoteResponse, error)
	UpdateStatus(userID, id string, status models.BookingStatus) (*dto.BookingResponse, error)
}

type bookingService struct {
	bookingRepo     repositories.BookingRepository
	propertyRepo    repositories.PropertyRepository
	userRepo        repositories.UserRepository
	notificationSvc NotificationService
	mailer          email.Provider
}

func NewBookingService(
	bookingRepo repositories.BookingRepository,
	propertyRepo repositories.PropertyRepository,
	userRepo repositories.UserRepository,
	notificationSvc NotificationService,
	mailer email.Provider,
) BookingService {
	return &bookingService{
		bookingRepo:     bookingRepo,
		propertyRepo:    propertyRepo,
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
		mailer:          mailer,
	}
}

func (s *bookingService) Create(tenantID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	// Date sanity comes first; nothing touches the database until the
	// range itself is valid.
	if err := validateRange(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	property, err := s.propertyRepo.FindByID(req.PropertyID)
	if err != nil {
		if errors.Is(err, repositories.ErrPropertyNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if property.Status != models.PropertyStatusPublished {
		return nil, apperrors.ErrInvalidStatus("booking", "Property is not open for booking")
	}
	if property.OwnerID == tenantID {
		return nil, apperrors.ErrInvalidOperation("booking", "You cannot book your own property")
	}

	// Read-then-decide availability check. Two concurrent requests for
	// the same dates can both pass; the landlord resolves the collision
	// at confirmation time.
	blocking, err := s.bookingRepo.FindBlocking(req.PropertyID, req.StartDate, req.EndDate)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if len(blocking) > 0 {
		return nil, apperrors.ErrConflict(nil, "booking", "Property is not available for the selected dates")
	}

	days := rentalDays(req.StartDate, req.EndDate)
	booking := &models.Booking{
		PropertyID:  req.PropertyID,
		TenantID:    tenantID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      models.BookingStatusPending,
		TotalAmount: float64(days) * property.Price,
		Currency:    property.Currency,
	}

	if err := s.bookingRepo.Create(booking); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.notificationSvc.NotifyBookingRequested(property.OwnerID, property.Title, booking.ID); err != nil {
		logger.WithError(err).Warn("booking notification failed", "booking_id", booking.ID)
	}

	booking.Property = *property
	resp := dto.NewBookingResponse(booking)
	return &resp, nil
}

func (s *bookingService) Get(userID, id string) (*dto.BookingResponse, error) {
	booking, err := s.findBooking(id)
	if err != nil {
		return nil, err
	}
	if booking.TenantID != userID && booking.Property.OwnerID != userID {
		return nil, apperrors.NewForbiddenError("Not your booking")
	}
	resp := dto.NewBookingResponse(booking)
	return &resp, nil
}

func (s *bookingService) ListByTenant(tenantID string, page, pageSize int) ([]dto.BookingResponse, int64, error) {
	bookings, total, err := s.bookingRepo.FindByTenant(tenantID, page, pageSize)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return toBookingResponses(bookings), total, nil
}

func (s *bookingService) ListByProperty(ownerID, propertyID string, page, pageSize int) ([]dto.BookingResponse, int64, error) {
	property, err := s.propertyRepo.FindByID(propertyID)
	if err != nil {
		if errors.Is(err, repositories.ErrPropertyNotFound) {
			return nil, 0, apperrors.ErrNotFound(err)
		}
		return nil, 0, apperrors.InternalError(err)
	}
	if property.OwnerID != ownerID {
		return nil, 0, apperrors.NewForbiddenError("You do not own this property")
	}

	bookings, total, err := s.bookingRepo.FindByProperty(propertyID, page, pageSize)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return toBookingResponses(bookings), total, nil
}

func (s *bookingService) CheckAvailability(propertyID string, start, end time.Time) (bool, error) {
	if err := validateRange(start, end); err != nil {
		return false, err
	}

	if _, err := s.propertyRepo.FindByID(propertyID); err != nil {
		if errors.Is(err, repositories.ErrPropertyNotFound) {
			return false, apperrors.ErrNotFound(err)
		}
		return false, apperrors.InternalError(err)
	}

	blocking, err := s.bookingRepo.FindBlocking(propertyID, start, end)
	if err != nil {
		return false, apperrors.InternalError(err)
	}
	return len(blocking) == 0, nil
}

func (s *bookingService) BookedDates(propertyID string) (*dto.BookedDatesResponse, error) {
	if _, err := s.propertyRepo.FindByID(propertyID); err != nil {
		if errors.Is(err, repositories.ErrPropertyNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	bookings, err := s.bookingRepo.FindBlockingRanges(propertyID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	ranges := make([]dto.BookedRange, 0, len(bookings))
	for _, b := range bookings {
		ranges = append(ranges, dto.BookedRange{StartDate: b.StartDate, EndDate: b.EndDate})
	}

	return &dto.BookedDatesResponse{PropertyID: propertyID, Ranges: ranges}, nil
}

func (s *bookingService) Quote(propertyID string, start, end time.Time) (*dto.QuoteResponse, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	property, err := s.propertyRepo.FindByID(propertyID)
	if err != nil {
		if errors.Is(err, repositories.ErrPropertyNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	days := rentalDays(start, end)
	return &dto.QuoteResponse{
		PropertyID: propertyID,
		Days:       days,
		Rate:       property.Price,
		Total:      float64(days) * property.Price,
		Currency:   property.Currency,
	}, nil
}

func (s *bookingService) UpdateStatus(userID, id string, status models.BookingStatus) (*dto.BookingResponse, error) {
	booking, err := s.findBooking(id)
	if err != nil {
		return nil, err
	}

	isTenant := booking.TenantID == userID
	isOwner := booking.Property.OwnerID == userID

	switch status {
	case models.BookingStatusConfirmed, models.BookingStatusCompleted:
		if !isOwner {
			return nil, apperrors.NewForbiddenError("Only the landlord can change this booking")
		}
	case models.BookingStatusCancelled:
		if !isTenant && !isOwner {
			return nil, apperrors.NewForbiddenError("Not your booking")
		}
	default:
		return nil, apperrors.ErrInvalidStatus("booking", "Unsupported booking status")
	}

	if err := validateTransition(booking.Status, status); err != nil {
		return nil, err
	}

	if err := s.bookingRepo.UpdateStatus(id, status); err != nil {
		return nil, apperrors.InternalError(err)
	}
	booking.Status = status

	if err := s.notificationSvc.NotifyBookingStatus(booking.TenantID, booking.Property.Title, status); err != nil {
		logger.WithError(err).Warn("status notification failed", "booking_id", id)
	}
	s.sendStatusEmail(booking, status)

	resp := dto.NewBookingResponse(booking)
	return &resp, nil
}

// Helpers

func (s *bookingService) findBooking(id string) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrBookingNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return booking, nil
}

func (s *bookingService) sendStatusEmail(booking *models.Booking, status models.BookingStatus) {
	tenant, err := s.userRepo.FindByID(booking.TenantID)
	if err != nil {
		return
	}

	switch status {
	case models.BookingStatusConfirmed:
		err = s.mailer.SendBookingConfirmation(tenant.Email, booking.Property.Title, booking.TotalAmount, booking.Currency)
	case models.BookingStatusCancelled:
		err = s.mailer.SendBookingCancelled(tenant.Email, booking.Property.Title)
	default:
		return
	}
	if err != nil {
		logger.WithError(err).Warn("booking email failed", "booking_id", booking.ID)
	}
}

func validateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return apperrors.NewBadRequestError("Start and end dates are required")
	}
	if !end.After(start) {
		return apperrors.NewBadRequestError("End date must be after start date")
	}
	return nil
}

func validateTransition(from, to models.BookingStatus) error {
	switch from {
	case models.BookingStatusPending:
		if to == models.BookingStatusConfirmed || to == models.BookingStatusCancelled {
			return nil
		}
	case models.BookingStatusConfirmed:
		if to == models.BookingStatusCompleted || to == models.BookingStatusCancelled {
			return nil
		}
	}
	return apperrors.ErrInvalidStatus("booking",
		"Cannot move booking from "+string(from)+" to "+string(to))
}

// rentalDays rounds a partial final day up to a whole chargeable day.
func rentalDays(start, end time.Time) int {
	hours := end.Sub(start).Hours()
	days := int(math.Ceil(hours / 24))
	if days < 1 {
		days = 1
	}
	return days
}

func toBookingResponses(bookings []models.Booking) []dto.BookingResponse {
	out := make([]dto.BookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, dto.NewBookingResponse(&bookings[i]))
	}
	return out
}
