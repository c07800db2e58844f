package services

import (
	"errors"
	"fmt"
	"time"

	"rent4u_backend/internal/dto"
	"rent4u_backend/internal/logger"
	"rent4u_backend/internal/models"
	"rent4u_backend/internal/repositories"
	"rent4u_backend/pkg/apperrors"

	"github.com/google/uuid"
)

// PaymentProvider is the boundary to the payment gateway. The charge
// either settles and yields a transaction id or fails as a whole.
type PaymentProvider interface {
	Charge(amount float64, currency string, method models.PaymentMethod) (transactionID string, err error)
	Refund(transactionID string) error
}

type PaymentService interface {
	Pay(userID string, req *dto.CreatePaymentRequest) (*dto.PaymentResponse, error)
	Get(userID, id string) (*dto.PaymentResponse, error)
	ListByUser(userID string, page, pageSize int) ([]dto.PaymentResponse, int64, error)
	Refund(userID, paymentID string) (*dto.PaymentResponse, error)
}

type paymentService struct {
	paymentRepo     repositories.PaymentRepository
	bookingRepo     repositories.BookingRepository
	provider        PaymentProvider
	notificationSvc NotificationService
}

func NewPaymentService(
	paymentRepo repositories.PaymentRepository,
	bookingRepo repositories.BookingRepository,
	provider PaymentProvider,
	notificationSvc NotificationService,
) PaymentService {
	return &paymentService{
		paymentRepo:     paymentRepo,
		bookingRepo:     bookingRepo,
		provider:        provider,
		notificationSvc: notificationSvc,
	}
}

func (s *paymentService) Pay(userID string, req *dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	booking, err := s.bookingRepo.FindByID(req.BookingID)
	if err != nil {
		if errors.Is(err, repositories.ErrBookingNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if booking.TenantID != userID {
		return nil, apperrors.NewForbiddenError("Not your booking")
	}
	if booking.Status != models.BookingStatusConfirmed {
		return nil, apperrors.ErrInvalidStatus("payment", "Only confirmed bookings can be paid")
	}
	if booking.PaymentStatus == models.BookingPaymentPaid {
		return nil, apperrors.ErrConflict(nil, "payment", "Booking is already paid")
	}

	payment := &models.Payment{
		BookingID: booking.ID,
		UserID:    userID,
		Amount:    booking.TotalAmount,
		Currency:  booking.Currency,
		Method:    models.PaymentMethod(req.Method),
		Status:    models.PaymentStatusPending,
	}

	transactionID, chargeErr := s.provider.Charge(payment.Amount, payment.Currency, payment.Method)
	if chargeErr != nil {
		payment.TransactionID = failedTransactionID()
		payment.Status = models.PaymentStatusFailed
		if err := s.paymentRepo.Create(payment); err != nil {
			logger.WithError(err).Error("failed to record declined payment", "booking_id", booking.ID)
		}
		return nil, apperrors.ErrInvalidOperation("payment", "Payment was declined")
	}

	now := time.Now()
	payment.TransactionID = transactionID
	payment.Status = models.PaymentStatusCompleted
	payment.PaidAt = &now

	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.bookingRepo.UpdatePaymentStatus(booking.ID, models.BookingPaymentPaid); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.notificationSvc.NotifyPaymentReceived(
		booking.Property.OwnerID, payment.Amount, payment.Currency, booking.ID,
	); err != nil {
		logger.WithError(err).Warn("payment notification failed", "payment_id", payment.ID)
	}

	resp := dto.NewPaymentResponse(payment)
	return &resp, nil
}

func (s *paymentService) Get(userID, id string) (*dto.PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if payment.UserID != userID {
		return nil, apperrors.NewForbiddenError("Not your payment")
	}

	resp := dto.NewPaymentResponse(payment)
	return &resp, nil
}

func (s *paymentService) ListByUser(userID string, page, pageSize int) ([]dto.PaymentResponse, int64, error) {
	payments, total, err := s.paymentRepo.FindByUser(userID, page, pageSize)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	out := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		out = append(out, dto.NewPaymentResponse(&payments[i]))
	}
	return out, total, nil
}

func (s *paymentService) Refund(userID, paymentID string) (*dto.PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(paymentID)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if payment.UserID != userID {
		return nil, apperrors.NewForbiddenError("Not your payment")
	}
	if payment.Status != models.PaymentStatusCompleted {
		return nil, apperrors.ErrInvalidStatus("payment", "Only completed payments can be refunded")
	}

	booking, err := s.bookingRepo.FindByID(payment.BookingID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if booking.Status != models.BookingStatusCancelled {
		return nil, apperrors.ErrInvalidOperation("payment", "Refunds require a cancelled booking")
	}

	if err := s.provider.Refund(payment.TransactionID); err != nil {
		return nil, apperrors.ErrInvalidOperation("payment", "Refund was rejected by the provider")
	}

	if err := s.paymentRepo.MarkRefunded(payment.ID); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.bookingRepo.UpdatePaymentStatus(booking.ID, models.BookingPaymentRefunded); err != nil {
		return nil, apperrors.InternalError(err)
	}
	payment.Status = models.PaymentStatusRefunded

	resp := dto.NewPaymentResponse(payment)
	return &resp, nil
}

// Failed charges still need a unique transaction id for the audit row.
func failedTransactionID() string {
	return fmt.Sprintf("failed-%s", uuid.NewString())
}

// MockPaymentProvider settles every charge instantly. Stands in for a
// real gateway in development and tests.
type MockPaymentProvider struct{}

func (MockPaymentProvider) Charge(amount float64, _ string, _ models.PaymentMethod) (string, error) {
	if amount <= 0 {
		return "", errors.New("non-positive amount")
	}
	return fmt.Sprintf("mock-%s", uuid.NewString()), nil
}

func (MockPaymentProvider) Refund(transactionID string) error {
	if transactionID == "" {
		return errors.New("missing transaction id")
	}
	return nil
}
