package workers

import (
	"context"
	"time"

	"rent4u_backend/internal/logger"
	"rent4u_backend/internal/repositories"
)

// retention is how long read notifications stay before archiving.
const retention = 30 * 24 * time.Hour

// NotificationWorker archives stale read notifications so the inbox
// query stays small.
type NotificationWorker struct {
	notificationRepo repositories.NotificationRepository
	interval         time.Duration
}

func NewNotificationWorker(notificationRepo repositories.NotificationRepository) *NotificationWorker {
	return &NotificationWorker{
		notificationRepo: notificationRepo,
		interval:         6 * time.Hour,
	}
}

func (w *NotificationWorker) Start(ctx context.Context) {
	go w.archiveLoop(ctx)
}

func (w *NotificationWorker) archiveLoop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("notification worker stopped")
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-retention)
			count, err := w.notificationRepo.ArchiveReadOlderThan(cutoff)
			logger.WorkerLog("notification", "archive stale", err)
			if err == nil && count > 0 {
				logger.Info("stale notifications archived", "count", count)
			}
		}
	}
}
