// internal/store/notification/store_test.go
package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/shophub/storefront-core/internal/realtime"
	"github.com/shophub/storefront-core/internal/store/persist"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	items     []Notification
	listErr   error
	markErr   error
	markeds   []string
	markedAll int
}

func (b *fakeBackend) ListNotifications(ctx context.Context, userID uint) ([]Notification, error) {
	if b.listErr != nil {
		return nil, b.listErr
	}
	return b.items, nil
}

func (b *fakeBackend) MarkNotificationRead(ctx context.Context, userID uint, id string) error {
	if b.markErr != nil {
		return b.markErr
	}
	b.markeds = append(b.markeds, id)
	return nil
}

func (b *fakeBackend) MarkAllNotificationsRead(ctx context.Context, userID uint) error {
	if b.markErr != nil {
		return b.markErr
	}
	b.markedAll++
	return nil
}

type stubChannel struct{}

func (stubChannel) Close() error { return nil }

type stubTransport struct {
	callbacks map[string]func(realtime.ChangeEvent)
}

func (t *stubTransport) Open(table string, entityID uint, callback func(realtime.ChangeEvent)) (realtime.Channel, error) {
	if t.callbacks == nil {
		t.callbacks = make(map[string]func(realtime.ChangeEvent))
	}
	t.callbacks[table] = callback
	return stubChannel{}, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newTestStore(backend *fakeBackend, historyLimit int) *Store {
	snapshots := persist.NewMemoryStore()
	manager := realtime.NewManager(&stubTransport{}, quietLogger())
	return NewStore(backend, snapshots, manager, historyLimit, quietLogger())
}

func TestFetchNotificationsComputesUnread(t *testing.T) {
	backend := &fakeBackend{
		items: []Notification{
			{ID: "a", IsRead: false},
			{ID: "b", IsRead: true},
			{ID: "c", IsRead: false},
		},
	}
	store := newTestStore(backend, 20)

	store.FetchNotifications(context.Background(), 42)

	assert.Len(t, store.Notifications(), 3)
	assert.Equal(t, 2, store.UnreadCount())
	assert.NoError(t, store.Err())
}

func TestFetchFailureSetsErr(t *testing.T) {
	backend := &fakeBackend{listErr: errors.New("backend unavailable")}
	store := newTestStore(backend, 20)

	store.FetchNotifications(context.Background(), 42)

	assert.Error(t, store.Err())
	assert.Empty(t, store.Notifications())
}

func TestMarkAsReadDecrementsUnread(t *testing.T) {
	backend := &fakeBackend{
		items: []Notification{
			{ID: "a", IsRead: false},
			{ID: "b", IsRead: false},
		},
	}
	store := newTestStore(backend, 20)
	ctx := context.Background()

	store.FetchNotifications(ctx, 42)
	store.MarkAsRead(ctx, "a")

	assert.Equal(t, 1, store.UnreadCount())
	assert.Equal(t, []string{"a"}, backend.markeds)

	items := store.Notifications()
	require.Len(t, items, 2)
	assert.True(t, items[0].IsRead)
	assert.False(t, items[1].IsRead)
}

func TestMarkAsReadUnknownIDIsNoop(t *testing.T) {
	backend := &fakeBackend{
		items: []Notification{{ID: "a", IsRead: false}},
	}
	store := newTestStore(backend, 20)
	ctx := context.Background()

	store.FetchNotifications(ctx, 42)
	store.MarkAsRead(ctx, "missing")

	assert.Equal(t, 1, store.UnreadCount())
	assert.Empty(t, backend.markeds)
}

func TestMarkAsReadAlreadyReadIsNoop(t *testing.T) {
	backend := &fakeBackend{
		items: []Notification{{ID: "a", IsRead: true}},
	}
	store := newTestStore(backend, 20)
	ctx := context.Background()

	store.FetchNotifications(ctx, 42)
	store.MarkAsRead(ctx, "a")

	assert.Empty(t, backend.markeds)
}

func TestMarkAsReadRevertsOnBackendFailure(t *testing.T) {
	backend := &fakeBackend{
		items: []Notification{{ID: "a", IsRead: false}},
	}
	store := newTestStore(backend, 20)
	ctx := context.Background()

	store.FetchNotifications(ctx, 42)
	backend.markErr = errors.New("backend unavailable")
	store.MarkAsRead(ctx, "a")

	items := store.Notifications()
	require.Len(t, items, 1)
	assert.False(t, items[0].IsRead)
	assert.Equal(t, 1, store.UnreadCount())
	assert.Error(t, store.Err())
}

func TestMarkAllAsRead(t *testing.T) {
	backend := &fakeBackend{
		items: []Notification{
			{ID: "a", IsRead: false},
			{ID: "b", IsRead: false},
			{ID: "c", IsRead: true},
		},
	}
	store := newTestStore(backend, 20)
	ctx := context.Background()

	store.FetchNotifications(ctx, 42)
	store.MarkAllAsRead(ctx)

	assert.Equal(t, 0, store.UnreadCount())
	assert.Equal(t, 1, backend.markedAll)
	for _, n := range store.Notifications() {
		assert.True(t, n.IsRead)
	}
}

func TestMarkAllAsReadBackendFailureLeavesStateUntouched(t *testing.T) {
	backend := &fakeBackend{
		items: []Notification{{ID: "a", IsRead: false}},
	}
	store := newTestStore(backend, 20)
	ctx := context.Background()

	store.FetchNotifications(ctx, 42)
	backend.markErr = errors.New("backend unavailable")
	store.MarkAllAsRead(ctx)

	assert.Equal(t, 1, store.UnreadCount())
	assert.Error(t, store.Err())
}

func TestAddNotificationPrependsAndDropsDuplicates(t *testing.T) {
	store := newTestStore(&fakeBackend{}, 20)

	store.AddNotification(Notification{ID: "a", Title: "first"})
	store.AddNotification(Notification{ID: "b", Title: "second"})
	store.AddNotification(Notification{ID: "a", Title: "first again"})

	items := store.Notifications()
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].ID)
	assert.Equal(t, "a", items[1].ID)
	assert.Equal(t, 2, store.UnreadCount())
}

func TestSnapshotCapsHistory(t *testing.T) {
	backend := &fakeBackend{}
	snapshots := persist.NewMemoryStore()
	manager := realtime.NewManager(&stubTransport{}, quietLogger())
	store := NewStore(backend, snapshots, manager, 3, quietLogger())

	for i := 0; i < 5; i++ {
		store.AddNotification(Notification{ID: fmt.Sprintf("n%d", i)})
	}

	restored := NewStore(backend, snapshots, manager, 3, quietLogger())
	assert.Len(t, restored.Notifications(), 3)
	assert.Equal(t, 5, restored.UnreadCount())
}

func TestRealtimeInsertFeedsStore(t *testing.T) {
	backend := &fakeBackend{}
	transport := &stubTransport{}
	snapshots := persist.NewMemoryStore()
	manager := realtime.NewManager(transport, quietLogger())
	store := NewStore(backend, snapshots, manager, 20, quietLogger())

	require.NoError(t, store.SubscribeToRealtime(42))
	require.Contains(t, transport.callbacks, "notifications")

	row, err := json.Marshal(Notification{ID: "evt-1", Title: "Order shipped", Type: TypeOrder})
	require.NoError(t, err)

	transport.callbacks["notifications"](realtime.ChangeEvent{
		Table: "notifications",
		Type:  realtime.EventInsert,
		Row:   row,
	})

	items := store.Notifications()
	require.Len(t, items, 1)
	assert.Equal(t, "evt-1", items[0].ID)
	assert.Equal(t, 1, store.UnreadCount())
}

func TestRealtimeNonInsertEventsIgnored(t *testing.T) {
	transport := &stubTransport{}
	snapshots := persist.NewMemoryStore()
	manager := realtime.NewManager(transport, quietLogger())
	store := NewStore(&fakeBackend{}, snapshots, manager, 20, quietLogger())

	require.NoError(t, store.SubscribeToRealtime(42))

	row, _ := json.Marshal(Notification{ID: "evt-1"})
	transport.callbacks["notifications"](realtime.ChangeEvent{
		Table: "notifications",
		Type:  realtime.EventUpdate,
		Row:   row,
	})

	assert.Empty(t, store.Notifications())
}
