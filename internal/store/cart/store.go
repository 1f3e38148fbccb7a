// internal/store/cart/store.go
package cart

import (
	"context"
	"sync"

	"github.com/shophub/storefront-core/internal/realtime"
	"github.com/shophub/storefront-core/internal/store/persist"
	"github.com/sirupsen/logrus"
)

// table is the backend table whose change events drive cart syncs
const table = "cart_items"

// snapshotKey names the cart snapshot in local durable storage
const snapshotKey = "cart"

// Backend is the remote cart surface the store reconciles against
type Backend interface {
	ListCartLines(ctx context.Context, userID uint) ([]Line, error)
	SaveCartLine(ctx context.Context, userID uint, line Line) error
	DeleteCartLine(ctx context.Context, userID uint, productID uint) error
	ClearCartLines(ctx context.Context, userID uint) error
	ListRecommendations(ctx context.Context, productIDs []uint) ([]Recommendation, error)
}

// Store holds the client-resident shopping cart. Local mutations apply
// immediately and persist to local durable storage; the backend remains
// the eventual source of truth and overwrites local state on sync.
type Store struct {
	backend   Backend
	snapshots persist.Store
	manager   *realtime.Manager
	logger    *logrus.Logger

	mu              sync.Mutex
	lines           []Line
	recommendations []Recommendation
	lastErr         error

	// single-flight sync guard: overlapping triggers collapse into at
	// most one trailing re-fetch, so a slow earlier fetch can never
	// overwrite the result of a later one
	syncing    bool
	syncQueued bool

	// user the store is currently wired to; zero while logged out,
	// in which case mutations stay local (guest cart)
	userID uint
}

// NewStore creates a cart store and restores the persisted snapshot,
// if any, before any network round-trip
func NewStore(backend Backend, snapshots persist.Store, manager *realtime.Manager, logger *logrus.Logger) *Store {
	s := &Store{
		backend:   backend,
		snapshots: snapshots,
		manager:   manager,
		logger:    logger,
		lines:     []Line{},
	}

	var restored []Line
	err := snapshots.Load(snapshotKey, &restored)
	if err == nil {
		s.lines = restored
	} else if err != persist.ErrNotFound {
		logger.WithField("error", err.Error()).Warn("Failed to restore cart snapshot")
	}

	return s
}

// AddItem adds a line to the cart. When a line with the same product
// already exists its quantity is increased by the incoming quantity and
// its remaining fields are left untouched.
func (s *Store) AddItem(ctx context.Context, line Line) {
	if line.Quantity < 1 {
		s.logger.WithField("product_id", line.ProductID).Warn("Ignoring add to cart with non-positive quantity")
		return
	}

	s.mu.Lock()
	merged := line
	found := false
	for i := range s.lines {
		if s.lines[i].ProductID == line.ProductID {
			s.lines[i].Quantity += line.Quantity
			merged = s.lines[i]
			found = true
			break
		}
	}
	if !found {
		s.lines = append(s.lines, line)
	}
	s.persistLocked()
	userID := s.userID
	s.mu.Unlock()

	if userID != 0 {
		if err := s.backend.SaveCartLine(ctx, userID, merged); err != nil {
			s.setErr(err, "Failed to write cart line to backend")
		}
	}
}

// RemoveItem deletes the matching line. No-op when absent.
func (s *Store) RemoveItem(ctx context.Context, productID uint) {
	s.mu.Lock()
	found := false
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			found = true
			break
		}
	}
	if found {
		s.persistLocked()
	}
	userID := s.userID
	s.mu.Unlock()

	if found && userID != 0 {
		if err := s.backend.DeleteCartLine(ctx, userID, productID); err != nil {
			s.setErr(err, "Failed to delete cart line from backend")
		}
	}
}

// UpdateQuantity sets the quantity for the matching line. A quantity of
// zero or below is treated as removal, uniformly.
func (s *Store) UpdateQuantity(ctx context.Context, productID uint, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(ctx, productID)
		return
	}

	s.mu.Lock()
	var updated Line
	found := false
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines[i].Quantity = quantity
			updated = s.lines[i]
			found = true
			break
		}
	}
	if found {
		s.persistLocked()
	}
	userID := s.userID
	s.mu.Unlock()

	if found && userID != 0 {
		if err := s.backend.SaveCartLine(ctx, userID, updated); err != nil {
			s.setErr(err, "Failed to write cart line to backend")
		}
	}
}

// ClearCart empties all lines
func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	s.lines = []Line{}
	s.persistLocked()
	userID := s.userID
	s.mu.Unlock()

	if userID != 0 {
		if err := s.backend.ClearCartLines(ctx, userID); err != nil {
			s.setErr(err, "Failed to clear cart on backend")
		}
	}
}

// Lines returns a copy of the current line list
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make([]Line, len(s.lines))
	copy(lines, s.lines)
	return lines
}

// TotalItems returns the sum of all line quantities
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, line := range s.lines {
		total += line.Quantity
	}
	return total
}

// TotalPrice returns the discounted cart total at full precision.
// Rounding to display precision is the presentation layer's concern.
func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0.0
	for _, line := range s.lines {
		total += float64(line.Quantity) * line.EffectivePrice()
	}
	return total
}

// SyncWithDatabase fetches the authoritative cart rows for the user and
// replaces the entire local line list. Overlapping calls are serialized:
// a call arriving while a fetch is in flight queues exactly one re-fetch
// instead of racing it.
func (s *Store) SyncWithDatabase(ctx context.Context, userID uint) {
	s.mu.Lock()
	if s.syncing {
		s.syncQueued = true
		s.mu.Unlock()
		return
	}
	s.syncing = true
	s.mu.Unlock()

	for {
		lines, err := s.backend.ListCartLines(ctx, userID)

		s.mu.Lock()
		if err != nil {
			s.lastErr = err
			s.logger.WithField("error", err.Error()).Error("Cart sync failed")
		} else {
			s.lastErr = nil
			if lines == nil {
				lines = []Line{}
			}
			s.lines = lines
			s.persistLocked()
		}

		if !s.syncQueued {
			s.syncing = false
			s.mu.Unlock()
			return
		}
		s.syncQueued = false
		s.mu.Unlock()
	}
}

// LoadRecommendations fetches related products for the given product
// ids. Cart line state is never touched; on failure the recommendation
// list simply stays empty.
func (s *Store) LoadRecommendations(ctx context.Context, productIDs []uint) {
	if len(productIDs) == 0 {
		s.mu.Lock()
		s.recommendations = nil
		s.mu.Unlock()
		return
	}

	recommendations, err := s.backend.ListRecommendations(ctx, productIDs)
	if err != nil {
		s.logger.WithField("error", err.Error()).Warn("Failed to load cart recommendations")
		return
	}

	s.mu.Lock()
	s.recommendations = recommendations
	s.mu.Unlock()
}

// Recommendations returns the last loaded recommendation set
func (s *Store) Recommendations() []Recommendation {
	s.mu.Lock()
	defer s.mu.Unlock()
	recommendations := make([]Recommendation, len(s.recommendations))
	copy(recommendations, s.recommendations)
	return recommendations
}

// SubscribeToRealtime wires the store to the push channel for the
// user's cart rows. Any change event triggers a full sync.
func (s *Store) SubscribeToRealtime(userID uint) error {
	s.mu.Lock()
	s.userID = userID
	s.mu.Unlock()

	_, err := s.manager.Subscribe(table, userID, func(event realtime.ChangeEvent) {
		s.SyncWithDatabase(context.Background(), userID)
	})
	return err
}

// UnsubscribeFromRealtime tears down the cart push channel. Persisted
// cart contents are kept so a guest session starts from the same cart.
func (s *Store) UnsubscribeFromRealtime() {
	s.mu.Lock()
	userID := s.userID
	s.userID = 0
	s.mu.Unlock()

	if userID != 0 {
		s.manager.Unsubscribe(table, userID)
	}
}

// Err returns the last sync or write error, nil after a clean sync
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// persistLocked writes the line list to local durable storage.
// Caller must hold s.mu.
func (s *Store) persistLocked() {
	if err := s.snapshots.Save(snapshotKey, s.lines); err != nil {
		s.logger.WithField("error", err.Error()).Warn("Failed to persist cart snapshot")
	}
}

func (s *Store) setErr(err error, msg string) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	s.logger.WithField("error", err.Error()).Error(msg)
}
