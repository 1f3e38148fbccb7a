// internal/store/session/store.go
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/shophub/storefront-core/internal/store/cart"
	"github.com/shophub/storefront-core/internal/store/notification"
	"github.com/sirupsen/logrus"
)

// Role gates which dashboards and actions the client exposes. It is
// resolved by the backend and trusted as fetched.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
	RoleAdmin    Role = "admin"
)

// Identity is the backend-issued identity of the signed-in user
type Identity struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// Backend authenticates credentials and resolves roles
type Backend interface {
	Authenticate(ctx context.Context, email, password string) (Identity, error)
	RoleFor(ctx context.Context, userID uint) (Role, error)
}

// Store holds the current identity and, on login/logout transitions,
// wires and unwires the cart and notification stores to the realtime
// channel. Stores are injected from the application root; nothing here
// is process-global.
type Store struct {
	backend       Backend
	cart          *cart.Store
	notifications *notification.Store
	logger        *logrus.Logger

	mu       sync.Mutex
	identity *Identity
}

// NewStore creates a session store over the injected state stores
func NewStore(backend Backend, cartStore *cart.Store, notificationStore *notification.Store, logger *logrus.Logger) *Store {
	return &Store{
		backend:       backend,
		cart:          cartStore,
		notifications: notificationStore,
		logger:        logger,
	}
}

// Login authenticates, resolves the user's role and wires both stores:
// one cart sync first, then realtime subscriptions for cart and
// notifications.
func (s *Store) Login(ctx context.Context, email, password string) (Identity, error) {
	identity, err := s.backend.Authenticate(ctx, email, password)
	if err != nil {
		return Identity{}, fmt.Errorf("authentication failed: %w", err)
	}

	role, err := s.backend.RoleFor(ctx, identity.UserID)
	if err != nil {
		return Identity{}, fmt.Errorf("role lookup failed: %w", err)
	}
	identity.Role = role

	s.mu.Lock()
	s.identity = &identity
	s.mu.Unlock()

	s.cart.SyncWithDatabase(ctx, identity.UserID)

	if err := s.cart.SubscribeToRealtime(identity.UserID); err != nil {
		s.logger.WithField("error", err.Error()).Error("Failed to subscribe cart to realtime")
	}
	if err := s.notifications.SubscribeToRealtime(identity.UserID); err != nil {
		s.logger.WithField("error", err.Error()).Error("Failed to subscribe notifications to realtime")
	}

	s.notifications.FetchNotifications(ctx, identity.UserID)

	s.logger.WithFields(logrus.Fields{
		"user_id": identity.UserID,
		"role":    identity.Role,
	}).Info("User logged in")

	return identity, nil
}

// Logout clears the identity and tears down both realtime channels.
// Persisted cart contents are kept so a guest session continues from
// the same cart.
func (s *Store) Logout() {
	s.mu.Lock()
	identity := s.identity
	s.identity = nil
	s.mu.Unlock()

	s.cart.UnsubscribeFromRealtime()
	s.notifications.UnsubscribeFromRealtime()

	if identity != nil {
		s.logger.WithField("user_id", identity.UserID).Info("User logged out")
	}
}

// Identity returns the current identity, nil when logged out
func (s *Store) Identity() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return nil
	}
	identity := *s.identity
	return &identity
}

// Role returns the current role, empty when logged out
func (s *Store) Role() Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return ""
	}
	return s.identity.Role
}
