// internal/store/notification/store.go
package notification

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/shophub/storefront-core/internal/realtime"
	"github.com/shophub/storefront-core/internal/store/persist"
	"github.com/sirupsen/logrus"
)

// table is the backend table whose insert events feed the store
const table = "notifications"

// snapshotKey names the notification snapshot in local durable storage
const snapshotKey = "notifications"

// Backend is the remote notification surface
type Backend interface {
	ListNotifications(ctx context.Context, userID uint) ([]Notification, error)
	MarkNotificationRead(ctx context.Context, userID uint, id string) error
	MarkAllNotificationsRead(ctx context.Context, userID uint) error
}

// snapshot is the capped subset kept in local durable storage
type snapshot struct {
	Items  []Notification `json:"items"`
	Unread int            `json:"unread"`
}

// Store holds the client-resident notification list with unread-count
// tracking. Mark-read is optimistic and rolled back when the backend
// update fails.
type Store struct {
	backend      Backend
	snapshots    persist.Store
	manager      *realtime.Manager
	logger       *logrus.Logger
	historyLimit int

	mu      sync.Mutex
	items   []Notification
	unread  int
	lastErr error
	userID  uint
}

// NewStore creates a notification store. historyLimit caps how many
// recent notifications are kept in local durable storage.
func NewStore(backend Backend, snapshots persist.Store, manager *realtime.Manager, historyLimit int, logger *logrus.Logger) *Store {
	s := &Store{
		backend:      backend,
		snapshots:    snapshots,
		manager:      manager,
		logger:       logger,
		historyLimit: historyLimit,
		items:        []Notification{},
	}

	var restored snapshot
	err := snapshots.Load(snapshotKey, &restored)
	if err == nil {
		s.items = restored.Items
		s.unread = restored.Unread
	} else if err != persist.ErrNotFound {
		logger.WithField("error", err.Error()).Warn("Failed to restore notification snapshot")
	}

	return s
}

// FetchNotifications pulls the recent notification history for the user
// and replaces the local list. Unread count is recomputed from the
// fetched entries.
func (s *Store) FetchNotifications(ctx context.Context, userID uint) {
	items, err := s.backend.ListNotifications(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.lastErr = err
		s.logger.WithField("error", err.Error()).Error("Notification fetch failed")
		return
	}

	s.lastErr = nil
	if items == nil {
		items = []Notification{}
	}
	s.items = items
	s.unread = countUnread(items)
	s.persistLocked()
}

// MarkAsRead optimistically flips is_read for the matching entry and
// confirms against the backend. On backend failure the local flip is
// reverted. Unknown ids and already-read entries are no-ops.
func (s *Store) MarkAsRead(ctx context.Context, id string) {
	s.mu.Lock()
	idx := -1
	for i := range s.items {
		if s.items[i].ID == id && !s.items[i].IsRead {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}

	s.items[idx].IsRead = true
	if s.unread > 0 {
		s.unread--
	}
	s.persistLocked()
	userID := s.userID
	s.mu.Unlock()

	if err := s.backend.MarkNotificationRead(ctx, userID, id); err != nil {
		// Roll the optimistic flip back so local state cannot silently
		// diverge from backend truth
		s.mu.Lock()
		for i := range s.items {
			if s.items[i].ID == id {
				s.items[i].IsRead = false
				break
			}
		}
		s.unread = countUnread(s.items)
		s.lastErr = err
		s.persistLocked()
		s.mu.Unlock()
		s.logger.WithField("notification_id", id).WithField("error", err.Error()).
			Error("Failed to mark notification read, reverted")
	}
}

// MarkAllAsRead issues one backend bulk update, then flips every local
// entry and zeroes the unread count
func (s *Store) MarkAllAsRead(ctx context.Context) {
	s.mu.Lock()
	userID := s.userID
	s.mu.Unlock()

	if err := s.backend.MarkAllNotificationsRead(ctx, userID); err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		s.logger.WithField("error", err.Error()).Error("Failed to mark all notifications read")
		return
	}

	s.mu.Lock()
	for i := range s.items {
		s.items[i].IsRead = true
	}
	s.unread = 0
	s.lastErr = nil
	s.persistLocked()
	s.mu.Unlock()
}

// AddNotification prepends a notification, as delivered by realtime
// insert events. The unread count is recomputed from the full list
// rather than incremented, so repeated deliveries cannot drift it.
func (s *Store) AddNotification(n Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.items {
		if existing.ID == n.ID {
			return // at-least-once delivery, drop the duplicate
		}
	}

	s.items = append([]Notification{n}, s.items...)
	s.unread = countUnread(s.items)
	s.persistLocked()
}

// Notifications returns a copy of the current list
func (s *Store) Notifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]Notification, len(s.items))
	copy(items, s.items)
	return items
}

// UnreadCount returns the current unread count
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unread
}

// SubscribeToRealtime wires the store to the push channel for the
// user's notifications; insert events feed AddNotification
func (s *Store) SubscribeToRealtime(userID uint) error {
	s.mu.Lock()
	s.userID = userID
	s.mu.Unlock()

	_, err := s.manager.Subscribe(table, userID, func(event realtime.ChangeEvent) {
		if event.Type != realtime.EventInsert {
			return
		}
		var n Notification
		if err := json.Unmarshal(event.Row, &n); err != nil {
			s.logger.WithField("error", err.Error()).Warn("Discarding malformed notification event")
			return
		}
		s.AddNotification(n)
	})
	return err
}

// UnsubscribeFromRealtime tears down the notification push channel
func (s *Store) UnsubscribeFromRealtime() {
	s.mu.Lock()
	userID := s.userID
	s.userID = 0
	s.mu.Unlock()

	if userID != 0 {
		s.manager.Unsubscribe(table, userID)
	}
}

// Err returns the last fetch or write error, nil after a clean fetch
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// persistLocked writes the capped recent subset plus the unread count
// to local durable storage. Caller must hold s.mu.
func (s *Store) persistLocked() {
	recent := s.items
	if len(recent) > s.historyLimit {
		recent = recent[:s.historyLimit]
	}

	if err := s.snapshots.Save(snapshotKey, snapshot{Items: recent, Unread: s.unread}); err != nil {
		s.logger.WithField("error", err.Error()).Warn("Failed to persist notification snapshot")
	}
}

func countUnread(items []Notification) int {
	count := 0
	for _, n := range items {
		if !n.IsRead {
			count++
		}
	}
	return count
}
