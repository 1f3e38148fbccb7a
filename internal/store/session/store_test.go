// internal/store/session/store_test.go
package session

import (
	"context"
	"errors"
	"testing"

	"github.com/shophub/storefront-core/internal/realtime"
	"github.com/shophub/storefront-core/internal/store/cart"
	"github.com/shophub/storefront-core/internal/store/notification"
	"github.com/shophub/storefront-core/internal/store/persist"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	identity Identity
	authErr  error
	role     Role
	roleErr  error
}

func (b *fakeBackend) Authenticate(ctx context.Context, email, password string) (Identity, error) {
	if b.authErr != nil {
		return Identity{}, b.authErr
	}
	return b.identity, nil
}

func (b *fakeBackend) RoleFor(ctx context.Context, userID uint) (Role, error) {
	if b.roleErr != nil {
		return "", b.roleErr
	}
	return b.role, nil
}

type fakeCartBackend struct {
	lines []cart.Line
	lists int
}

func (b *fakeCartBackend) ListCartLines(ctx context.Context, userID uint) ([]cart.Line, error) {
	b.lists++
	return b.lines, nil
}

func (b *fakeCartBackend) SaveCartLine(ctx context.Context, userID uint, line cart.Line) error {
	return nil
}

func (b *fakeCartBackend) DeleteCartLine(ctx context.Context, userID uint, productID uint) error {
	return nil
}

func (b *fakeCartBackend) ClearCartLines(ctx context.Context, userID uint) error {
	return nil
}

func (b *fakeCartBackend) ListRecommendations(ctx context.Context, productIDs []uint) ([]cart.Recommendation, error) {
	return nil, nil
}

type fakeNotificationBackend struct {
	items []notification.Notification
	lists int
}

func (b *fakeNotificationBackend) ListNotifications(ctx context.Context, userID uint) ([]notification.Notification, error) {
	b.lists++
	return b.items, nil
}

func (b *fakeNotificationBackend) MarkNotificationRead(ctx context.Context, userID uint, id string) error {
	return nil
}

func (b *fakeNotificationBackend) MarkAllNotificationsRead(ctx context.Context, userID uint) error {
	return nil
}

type stubChannel struct{}

func (stubChannel) Close() error { return nil }

type stubTransport struct {
	opened int
}

func (t *stubTransport) Open(table string, entityID uint, callback func(realtime.ChangeEvent)) (realtime.Channel, error) {
	t.opened++
	return stubChannel{}, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

type fixture struct {
	store               *Store
	manager             *realtime.Manager
	transport           *stubTransport
	cartStore           *cart.Store
	notificationStore   *notification.Store
	cartBackend         *fakeCartBackend
	notificationBackend *fakeNotificationBackend
}

func newFixture(backend Backend) *fixture {
	transport := &stubTransport{}
	manager := realtime.NewManager(transport, quietLogger())
	cartBackend := &fakeCartBackend{}
	notificationBackend := &fakeNotificationBackend{}

	cartStore := cart.NewStore(cartBackend, persist.NewMemoryStore(), manager, quietLogger())
	notificationStore := notification.NewStore(notificationBackend, persist.NewMemoryStore(), manager, 20, quietLogger())

	return &fixture{
		store:               NewStore(backend, cartStore, notificationStore, quietLogger()),
		manager:             manager,
		transport:           transport,
		cartStore:           cartStore,
		notificationStore:   notificationStore,
		cartBackend:         cartBackend,
		notificationBackend: notificationBackend,
	}
}

func TestLoginWiresStores(t *testing.T) {
	backend := &fakeBackend{
		identity: Identity{UserID: 42, Email: "jordan@example.com"},
		role:     RoleCustomer,
	}
	f := newFixture(backend)
	f.cartBackend.lines = []cart.Line{{ProductID: 1, Quantity: 2}}
	f.notificationBackend.items = []notification.Notification{{ID: "a", IsRead: false}}

	identity, err := f.store.Login(context.Background(), "jordan@example.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, uint(42), identity.UserID)
	assert.Equal(t, RoleCustomer, identity.Role)
	assert.Equal(t, RoleCustomer, f.store.Role())

	// Cart synced, notifications fetched, both channels open
	assert.Equal(t, 1, f.cartBackend.lists)
	assert.Equal(t, 1, f.notificationBackend.lists)
	assert.Equal(t, 2, f.manager.ActiveChannels())
	assert.Len(t, f.cartStore.Lines(), 1)
	assert.Equal(t, 1, f.notificationStore.UnreadCount())
}

func TestLoginFailureLeavesStoresUnwired(t *testing.T) {
	backend := &fakeBackend{authErr: errors.New("invalid credentials")}
	f := newFixture(backend)

	_, err := f.store.Login(context.Background(), "jordan@example.com", "wrong")
	require.Error(t, err)

	assert.Nil(t, f.store.Identity())
	assert.Equal(t, 0, f.manager.ActiveChannels())
	assert.Equal(t, 0, f.cartBackend.lists)
}

func TestLoginRoleLookupFailure(t *testing.T) {
	backend := &fakeBackend{
		identity: Identity{UserID: 42},
		roleErr:  errors.New("role lookup failed"),
	}
	f := newFixture(backend)

	_, err := f.store.Login(context.Background(), "jordan@example.com", "secret")
	require.Error(t, err)
	assert.Nil(t, f.store.Identity())
}

func TestLogoutTearsDownChannelsButKeepsCart(t *testing.T) {
	backend := &fakeBackend{
		identity: Identity{UserID: 42},
		role:     RoleCustomer,
	}
	f := newFixture(backend)
	f.cartBackend.lines = []cart.Line{{ProductID: 1, Quantity: 2}}

	_, err := f.store.Login(context.Background(), "jordan@example.com", "secret")
	require.NoError(t, err)
	require.Equal(t, 2, f.manager.ActiveChannels())

	f.store.Logout()

	assert.Nil(t, f.store.Identity())
	assert.Equal(t, Role(""), f.store.Role())
	assert.Equal(t, 0, f.manager.ActiveChannels())

	// Cart contents stay for the guest session
	assert.Len(t, f.cartStore.Lines(), 1)
}

func TestLogoutWhileLoggedOutIsNoop(t *testing.T) {
	f := newFixture(&fakeBackend{})

	f.store.Logout()

	assert.Nil(t, f.store.Identity())
	assert.Equal(t, 0, f.manager.ActiveChannels())
}
