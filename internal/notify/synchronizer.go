// Package notify keeps a per-session view of a user's notifications in
// sync with the store. Two feeds land in the same state: a periodic
// poll of the first page plus the unread counter, and pushed events
// from the live connection. Both are merged by notification id with the
// most advanced status winning, so duplicate or out-of-order delivery
// is harmless.
package notify

import (
	"sync"
	"time"

	"rent4u_backend/internal/dto"
	"rent4u_backend/internal/logger"
	"rent4u_backend/internal/models"
	"rent4u_backend/internal/repositories"
	"rent4u_backend/internal/services"
)

type Synchronizer struct {
	userID   string
	svc      services.NotificationService
	pageSize int

	mu       sync.Mutex
	items    []dto.NotificationResponse
	unread   int64
	lastSync time.Time

	stop chan struct{}
	done chan struct{}
}

// NewSynchronizer loads the initial page and unread counter, then keeps
// polling every interval until Close. A failed initial load still
// returns a working synchronizer; the next poll heals it.
func NewSynchronizer(userID string, svc services.NotificationService, pageSize int, pollInterval time.Duration) *Synchronizer {
	s := &Synchronizer{
		userID:   userID,
		svc:      svc,
		pageSize: pageSize,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	s.refresh()
	go s.pollLoop(pollInterval)
	return s
}

func (s *Synchronizer) pollLoop(interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.refresh()
		case <-s.stop:
			return
		}
	}
}

// refresh replaces the local page with a server read. Poll errors are
// swallowed: the previous state stays visible and the next tick retries.
func (s *Synchronizer) refresh() {
	list, err := s.svc.List(s.userID, repositories.NotificationCriteria{
		Page:     1,
		PageSize: s.pageSize,
	})
	if err != nil {
		logger.WithError(err).Debug("notification poll failed", "user_id", s.userID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Server state wins for items it returns, but a locally known higher
	// status is kept: a push may have outrun the poll read.
	known := make(map[string]models.NotificationStatus, len(s.items))
	for _, item := range s.items {
		known[item.ID] = item.Status
	}

	merged := make([]dto.NotificationResponse, 0, len(list.Notifications))
	for _, item := range list.Notifications {
		if local, ok := known[item.ID]; ok && local.Rank() > item.Status.Rank() {
			item.Status = local
		}
		merged = append(merged, item)
	}

	s.items = merged
	s.unread = list.UnreadCount
	s.lastSync = time.Now()
}

// Push merges one pushed notification into the local page. An unseen id
// is prepended and optimistically bumps the unread counter; a known id
// only ever advances its status. The page stays capped at its size.
func (s *Synchronizer) Push(n dto.NotificationResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != n.ID {
			continue
		}
		if n.Status.Rank() > s.items[i].Status.Rank() {
			s.items[i].Status = n.Status
			s.items[i].ReadAt = n.ReadAt
		}
		return
	}

	s.items = append([]dto.NotificationResponse{n}, s.items...)
	if len(s.items) > s.pageSize {
		s.items = s.items[:s.pageSize]
	}
	if isUnread(n.Status) {
		s.unread++
	}
}

// MarkAllRead sends every locally unread id to the server in one batch.
// With nothing unread it is a no-op. The local state flips only after
// the server accepts; on error the unread items stay and a later retry
// or poll converges.
func (s *Synchronizer) MarkAllRead() error {
	s.mu.Lock()
	ids := make([]string, 0, len(s.items))
	for _, item := range s.items {
		if isUnread(item.Status) {
			ids = append(ids, item.ID)
		}
	}
	s.mu.Unlock()

	if len(ids) == 0 {
		return nil
	}

	if err := s.svc.MarkRead(s.userID, ids); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for i := range s.items {
		if isUnread(s.items[i].Status) {
			s.items[i].Status = models.NotificationStatusRead
			s.items[i].ReadAt = &now
		}
	}
	s.unread = 0
	return nil
}

// Snapshot returns a copy of the current page and the unread counter.
func (s *Synchronizer) Snapshot() ([]dto.NotificationResponse, int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]dto.NotificationResponse, len(s.items))
	copy(out, s.items)
	return out, s.unread
}

// LastSync reports when the last successful poll completed.
func (s *Synchronizer) LastSync() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSync
}

// Close stops the poll loop and waits for it to exit.
func (s *Synchronizer) Close() {
	close(s.stop)
	<-s.done
}

func isUnread(status models.NotificationStatus) bool {
	return status == models.NotificationStatusSent || status == models.NotificationStatusDelivered
}
