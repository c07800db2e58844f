package services

import (
	"rent4u_backend/internal/email"
	"rent4u_backend/internal/repositories"

	"gorm.io/gorm"
)

// ServiceContainer holds every application service.
type ServiceContainer struct {
	AuthService         AuthService
	PropertyService     PropertyService
	BookingService      BookingService
	PaymentService      PaymentService
	NotificationService NotificationService
	SubscriptionService SubscriptionService
	ChatService         ChatService
	ReviewService       ReviewService
	EmailService        email.Provider
}

// RepositoryContainer holds every repository, built once over a single
// gorm connection.
type RepositoryContainer struct {
	UserRepo         repositories.UserRepository
	RefreshTokenRepo repositories.RefreshTokenRepository
	PropertyRepo     repositories.PropertyRepository
	BookingRepo      repositories.BookingRepository
	PaymentRepo      repositories.PaymentRepository
	NotificationRepo repositories.NotificationRepository
	SubscriptionRepo repositories.SubscriptionRepository
	ChatRepo         repositories.ChatRepository
	ReviewRepo       repositories.ReviewRepository
}

func NewRepositoryContainer(db *gorm.DB) *RepositoryContainer {
	return &RepositoryContainer{
		UserRepo:         repositories.NewUserRepository(db),
		RefreshTokenRepo: repositories.NewRefreshTokenRepository(db),
		PropertyRepo:     repositories.NewPropertyRepository(db),
		BookingRepo:      repositories.NewBookingRepository(db),
		PaymentRepo:      repositories.NewPaymentRepository(db),
		NotificationRepo: repositories.NewNotificationRepository(db),
		SubscriptionRepo: repositories.NewSubscriptionRepository(db),
		ChatRepo:         repositories.NewChatRepository(db),
		ReviewRepo:       repositories.NewReviewRepository(db),
	}
}

// NewServiceContainer wires services over the repositories. The pusher
// is usually the websocket manager; pass nil to disable live push.
func NewServiceContainer(
	repos *RepositoryContainer,
	mailer email.Provider,
	paymentProvider PaymentProvider,
	pusher Pusher,
) *ServiceContainer {
	notificationSvc := NewNotificationService(repos.NotificationRepo, pusher)
	subscriptionSvc := NewSubscriptionService(
		repos.SubscriptionRepo, repos.PropertyRepo, repos.UserRepo, notificationSvc, mailer,
	)

	return &ServiceContainer{
		AuthService:         NewAuthService(repos.UserRepo, repos.RefreshTokenRepo, mailer),
		PropertyService:     NewPropertyService(repos.PropertyRepo, subscriptionSvc),
		BookingService:      NewBookingService(repos.BookingRepo, repos.PropertyRepo, repos.UserRepo, notificationSvc, mailer),
		PaymentService:      NewPaymentService(repos.PaymentRepo, repos.BookingRepo, paymentProvider, notificationSvc),
		NotificationService: notificationSvc,
		SubscriptionService: subscriptionSvc,
		ChatService:         NewChatService(repos.ChatRepo, repos.UserRepo, notificationSvc),
		ReviewService:       NewReviewService(repos.ReviewRepo, repos.BookingRepo, repos.PropertyRepo, notificationSvc),
		EmailService:        mailer,
	}
}
