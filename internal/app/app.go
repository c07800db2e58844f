package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"rent4u_backend/internal/config"
	"rent4u_backend/internal/email"
	"rent4u_backend/internal/handlers"
	"rent4u_backend/internal/logger"
	"rent4u_backend/internal/middleware"
	"rent4u_backend/internal/models"
	"rent4u_backend/internal/repositories"
	"rent4u_backend/internal/routes"
	"rent4u_backend/internal/services"
	"rent4u_backend/internal/validator"
	"rent4u_backend/internal/workers"
	"rent4u_backend/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("logger initialized", "env", cfg.Server.Env)

	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("database unavailable", "error", err)
	}
	logger.Info("database connected")

	if err := Migrate(gormDB); err != nil {
		logger.Fatal("migration failed", "error", err)
	}
	if err := SeedDefaultPlans(gormDB); err != nil {
		logger.Fatal("failed to seed subscription plans", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	repos := services.NewRepositoryContainer(gormDB)

	wsManager := ws.NewManager()
	go wsManager.Run()

	serviceContainer := services.NewServiceContainer(
		repos,
		newEmailProvider(),
		newPaymentProvider(),
		wsManager,
	)

	appHandlers := handlers.NewAppHandlers(serviceContainer, validator.New())
	wsHandler := ws.NewHandler(wsManager, serviceContainer.ChatService, serviceContainer.NotificationService)

	workerCtx := context.Background()
	workers.NewSubscriptionWorker(serviceContainer.SubscriptionService).Start(workerCtx)
	workers.NewNotificationWorker(repos.NotificationRepo).Start(workerCtx)

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler)

	return ginRouter
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())
	return ginRouter
}

func newEmailProvider() email.Provider {
	cfg := config.GetConfig()
	if cfg.Email.SMTPHost == "" {
		if cfg.Server.Env == "development" {
			logger.Warn("no SMTP host configured, logging mail instead")
			return MockEmailProvider{}
		}
		logger.Warn("no SMTP host configured, email delivery disabled")
		return email.NoopProvider{}
	}
	return email.NewSMTPProvider()
}

func newPaymentProvider() services.PaymentProvider {
	if os.Getenv("PAYMENT_GATEWAY_URL") == "" {
		logger.Warn("no payment gateway configured, using mock provider")
		return services.MockPaymentProvider{}
	}
	// A real gateway client would be constructed here.
	return services.MockPaymentProvider{}
}

// Migrate creates or updates the schema for every model.
func Migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Property{},
		&models.PropertyImage{},
		&models.Booking{},
		&models.Payment{},
		&models.Notification{},
		&models.SubscriptionPlan{},
		&models.UserSubscription{},
		&models.Conversation{},
		&models.Message{},
		&models.Review{},
	)
}

// SeedDefaultPlans makes sure the catalogue of subscription plans
// exists. Already-seeded plans are left untouched.
func SeedDefaultPlans(gormDB *gorm.DB) error {
	repo := repositories.NewSubscriptionRepository(gormDB)

	defaults := []struct {
		name     string
		price    float64
		duration string
		limits   models.PlanLimits
	}{
		{"basic", 9.99, "monthly", models.PlanLimits{MaxListings: 5, MaxFeatured: 1}},
		{"pro", 29.99, "monthly", models.PlanLimits{MaxListings: 25, MaxFeatured: 5}},
		{"unlimited", 99.99, "monthly", models.PlanLimits{MaxListings: -1, MaxFeatured: -1}},
	}

	for _, d := range defaults {
		_, err := repo.FindPlanByName(d.name)
		if err == nil {
			continue
		}
		if !errors.Is(err, repositories.ErrPlanNotFound) {
			return err
		}

		limitsJSON, err := json.Marshal(d.limits)
		if err != nil {
			return err
		}
		plan := &models.SubscriptionPlan{
			Name:     d.name,
			Price:    d.price,
			Currency: "GBP",
			Duration: d.duration,
			Limits:   datatypes.JSON(limitsJSON),
			IsActive: true,
		}
		if err := repo.CreatePlan(plan); err != nil {
			return err
		}
		logger.Info("subscription plan seeded", "name", d.name)
	}

	return nil
}
