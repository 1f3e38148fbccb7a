// internal/store/cart/store_test.go
package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shophub/storefront-core/internal/realtime"
	"github.com/shophub/storefront-core/internal/store/persist"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	lines           []Line
	recommendations []Recommendation
	listErr         error

	savedLines      []Line
	deletedProducts []uint
	cleared         int
}

func (b *fakeBackend) ListCartLines(ctx context.Context, userID uint) ([]Line, error) {
	if b.listErr != nil {
		return nil, b.listErr
	}
	return b.lines, nil
}

func (b *fakeBackend) SaveCartLine(ctx context.Context, userID uint, line Line) error {
	b.savedLines = append(b.savedLines, line)
	return nil
}

func (b *fakeBackend) DeleteCartLine(ctx context.Context, userID uint, productID uint) error {
	b.deletedProducts = append(b.deletedProducts, productID)
	return nil
}

func (b *fakeBackend) ClearCartLines(ctx context.Context, userID uint) error {
	b.cleared++
	return nil
}

func (b *fakeBackend) ListRecommendations(ctx context.Context, productIDs []uint) ([]Recommendation, error) {
	return b.recommendations, nil
}

type stubChannel struct{}

func (stubChannel) Close() error { return nil }

// stubTransport records callbacks so tests can fire change events
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

func newTestStore(backend *fakeBackend) (*Store, persist.Store) {
	snapshots := persist.NewMemoryStore()
	manager := realtime.NewManager(&stubTransport{}, quietLogger())
	return NewStore(backend, snapshots, manager, quietLogger()), snapshots
}

func TestAddItemMergesQuantities(t *testing.T) {
	store, _ := newTestStore(&fakeBackend{})
	ctx := context.Background()

	store.AddItem(ctx, Line{ProductID: 1, Name: "Widget", UnitPrice: 100, DiscountPercent: 10, Quantity: 2})
	store.AddItem(ctx, Line{ProductID: 1, Name: "Widget", UnitPrice: 100, DiscountPercent: 10, Quantity: 1})

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, 3, store.TotalItems())
}

func TestTotalPriceAppliesDiscount(t *testing.T) {
	store, _ := newTestStore(&fakeBackend{})
	ctx := context.Background()

	store.AddItem(ctx, Line{ProductID: 1, UnitPrice: 100, DiscountPercent: 10, Quantity: 3})

	assert.InDelta(t, 270.0, store.TotalPrice(), 1e-9)
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	store, _ := newTestStore(&fakeBackend{})

	store.AddItem(context.Background(), Line{ProductID: 1, Quantity: 0})

	assert.Empty(t, store.Lines())
}

func TestRemoveItemAbsentIsNoop(t *testing.T) {
	backend := &fakeBackend{}
	store, _ := newTestStore(backend)
	ctx := context.Background()

	store.AddItem(ctx, Line{ProductID: 1, Quantity: 1})
	store.RemoveItem(ctx, 99)

	assert.Len(t, store.Lines(), 1)
	assert.Empty(t, backend.deletedProducts)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	store, _ := newTestStore(&fakeBackend{})
	ctx := context.Background()

	store.AddItem(ctx, Line{ProductID: 1, Quantity: 2})
	store.UpdateQuantity(ctx, 1, 0)

	assert.Empty(t, store.Lines())
}

func TestUpdateQuantitySetsAbsoluteValue(t *testing.T) {
	store, _ := newTestStore(&fakeBackend{})
	ctx := context.Background()

	store.AddItem(ctx, Line{ProductID: 1, Quantity: 2})
	store.UpdateQuantity(ctx, 1, 5)

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestClearCartEmptiesLines(t *testing.T) {
	store, _ := newTestStore(&fakeBackend{})
	ctx := context.Background()

	store.AddItem(ctx, Line{ProductID: 1, Quantity: 2})
	store.AddItem(ctx, Line{ProductID: 2, Quantity: 1})
	store.ClearCart(ctx)

	assert.Empty(t, store.Lines())
	assert.Equal(t, 0, store.TotalItems())
}

func TestSnapshotRestoredOnStartup(t *testing.T) {
	backend := &fakeBackend{}
	snapshots := persist.NewMemoryStore()
	manager := realtime.NewManager(&stubTransport{}, quietLogger())

	first := NewStore(backend, snapshots, manager, quietLogger())
	first.AddItem(context.Background(), Line{ProductID: 1, Name: "Widget", UnitPrice: 50, Quantity: 2})

	second := NewStore(backend, snapshots, manager, quietLogger())
	lines := second.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, uint(1), lines[0].ProductID)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestSyncReplacesLocalLines(t *testing.T) {
	backend := &fakeBackend{
		lines: []Line{{ProductID: 7, Name: "Server Widget", UnitPrice: 20, Quantity: 4}},
	}
	store, _ := newTestStore(backend)
	ctx := context.Background()

	store.AddItem(ctx, Line{ProductID: 1, Quantity: 1})
	store.SyncWithDatabase(ctx, 42)

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, uint(7), lines[0].ProductID)
	assert.NoError(t, store.Err())
}

func TestSyncFailureKeepsLocalLinesAndSetsErr(t *testing.T) {
	backend := &fakeBackend{listErr: errors.New("backend unavailable")}
	store, _ := newTestStore(backend)
	ctx := context.Background()

	store.AddItem(ctx, Line{ProductID: 1, Quantity: 1})
	store.SyncWithDatabase(ctx, 42)

	assert.Len(t, store.Lines(), 1)
	assert.Error(t, store.Err())
}

// gatedBackend blocks the first fetch until released, so a test can
// hold a sync in flight while firing more triggers
type gatedBackend struct {
	fakeBackend

	mu      sync.Mutex
	fetches int
	release chan struct{}
	results [][]Line
}

func (b *gatedBackend) ListCartLines(ctx context.Context, userID uint) ([]Line, error) {
	b.mu.Lock()
	n := b.fetches
	b.fetches++
	b.mu.Unlock()

	if n == 0 {
		<-b.release
	}

	if n >= len(b.results) {
		n = len(b.results) - 1
	}
	return b.results[n], nil
}

func (b *gatedBackend) fetchCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fetches
}

func TestOverlappingSyncsCollapseToOneTrailingFetch(t *testing.T) {
	backend := &gatedBackend{
		release: make(chan struct{}),
		results: [][]Line{
			{{ProductID: 1, Quantity: 1}},
			{{ProductID: 2, Quantity: 5}},
		},
	}
	snapshots := persist.NewMemoryStore()
	manager := realtime.NewManager(&stubTransport{}, quietLogger())
	store := NewStore(backend, snapshots, manager, quietLogger())

	done := make(chan struct{})
	go func() {
		store.SyncWithDatabase(context.Background(), 42)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return backend.fetchCount() == 1
	}, time.Second, time.Millisecond)

	// Two triggers while the first fetch is blocked: both return
	// immediately and collapse into a single queued re-fetch
	store.SyncWithDatabase(context.Background(), 42)
	store.SyncWithDatabase(context.Background(), 42)

	close(backend.release)
	<-done

	assert.Equal(t, 2, backend.fetchCount())

	// The trailing fetch's response wins over the stale first one
	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, uint(2), lines[0].ProductID)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.NoError(t, store.Err())
}

func TestMutationsWriteToBackendWhenSubscribed(t *testing.T) {
	backend := &fakeBackend{}
	store, _ := newTestStore(backend)
	ctx := context.Background()

	require.NoError(t, store.SubscribeToRealtime(42))

	store.AddItem(ctx, Line{ProductID: 1, Quantity: 2})
	store.RemoveItem(ctx, 1)

	require.Len(t, backend.savedLines, 1)
	assert.Equal(t, uint(1), backend.savedLines[0].ProductID)
	assert.Equal(t, []uint{1}, backend.deletedProducts)
}

func TestGuestMutationsStayLocal(t *testing.T) {
	backend := &fakeBackend{}
	store, _ := newTestStore(backend)

	store.AddItem(context.Background(), Line{ProductID: 1, Quantity: 2})

	assert.Empty(t, backend.savedLines)
	assert.Len(t, store.Lines(), 1)
}

func TestRealtimeEventTriggersSync(t *testing.T) {
	backend := &fakeBackend{
		lines: []Line{{ProductID: 9, Quantity: 1}},
	}
	transport := &stubTransport{}
	snapshots := persist.NewMemoryStore()
	manager := realtime.NewManager(transport, quietLogger())
	store := NewStore(backend, snapshots, manager, quietLogger())

	require.NoError(t, store.SubscribeToRealtime(42))
	require.Contains(t, transport.callbacks, "cart_items")

	transport.callbacks["cart_items"](realtime.ChangeEvent{Table: "cart_items", Type: realtime.EventUpdate})

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, uint(9), lines[0].ProductID)
}

func TestLoadRecommendations(t *testing.T) {
	backend := &fakeBackend{
		recommendations: []Recommendation{{ProductID: 3, Name: "Related"}},
	}
	store, _ := newTestStore(backend)

	store.LoadRecommendations(context.Background(), []uint{1})

	recommendations := store.Recommendations()
	require.Len(t, recommendations, 1)
	assert.Equal(t, uint(3), recommendations[0].ProductID)
}

func TestLoadRecommendationsEmptyCartClears(t *testing.T) {
	backend := &fakeBackend{
		recommendations: []Recommendation{{ProductID: 3}},
	}
	store, _ := newTestStore(backend)

	store.LoadRecommendations(context.Background(), []uint{1})
	store.LoadRecommendations(context.Background(), nil)

	assert.Empty(t, store.Recommendations())
}
