package workers

import (
	"context"
	"time"

	"rent4u_backend/internal/logger"
	"rent4u_backend/internal/services"
)

// SubscriptionWorker expires overdue subscriptions in the background.
type SubscriptionWorker struct {
	subscriptionSvc services.SubscriptionService
	interval        time.Duration
}

func NewSubscriptionWorker(subscriptionSvc services.SubscriptionService) *SubscriptionWorker {
	return &SubscriptionWorker{
		subscriptionSvc: subscriptionSvc,
		interval:        1 * time.Hour,
	}
}

func (w *SubscriptionWorker) Start(ctx context.Context) {
	go w.expireLoop(ctx)
}

func (w *SubscriptionWorker) expireLoop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("subscription worker stopped")
			return
		case <-ticker.C:
			count, err := w.subscriptionSvc.ProcessExpired()
			logger.WorkerLog("subscription", "expire overdue", err)
			if err == nil && count > 0 {
				logger.Info("expired subscriptions processed", "count", count)
			}
		}
	}
}
