// internal/realtime/manager_test.go
package realtime

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	closed int
}

func (c *fakeChannel) Close() error {
	c.closed++
	return nil
}

type fakeTransport struct {
	opened   []string
	channels []*fakeChannel
}

func (t *fakeTransport) Open(table string, entityID uint, callback func(ChangeEvent)) (Channel, error) {
	t.opened = append(t.opened, subscriptionKey(table, entityID))
	channel := &fakeChannel{}
	t.channels = append(t.channels, channel)
	return channel, nil
}

func newTestManager() (*Manager, *fakeTransport) {
	transport := &fakeTransport{}
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewManager(transport, logger), transport
}

func TestSubscribeOpensChannel(t *testing.T) {
	manager, transport := newTestManager()

	handle, err := manager.Subscribe("cart_items", 42, func(ChangeEvent) {})
	require.NoError(t, err)

	assert.Equal(t, "cart_items", handle.Table)
	assert.Equal(t, uint(42), handle.EntityID)
	assert.Equal(t, []string{"cart_items:42"}, transport.opened)
	assert.Equal(t, 1, manager.ActiveChannels())
}

func TestSubscribeReplacesExistingChannel(t *testing.T) {
	manager, transport := newTestManager()

	_, err := manager.Subscribe("cart_items", 42, func(ChangeEvent) {})
	require.NoError(t, err)

	_, err = manager.Subscribe("cart_items", 42, func(ChangeEvent) {})
	require.NoError(t, err)

	// Old channel is closed before the replacement opens
	require.Len(t, transport.channels, 2)
	assert.Equal(t, 1, transport.channels[0].closed)
	assert.Equal(t, 0, transport.channels[1].closed)
	assert.Equal(t, 1, manager.ActiveChannels())
}

func TestSubscribeDistinctKeysCoexist(t *testing.T) {
	manager, _ := newTestManager()

	_, err := manager.Subscribe("cart_items", 42, func(ChangeEvent) {})
	require.NoError(t, err)
	_, err = manager.Subscribe("notifications", 42, func(ChangeEvent) {})
	require.NoError(t, err)
	_, err = manager.Subscribe("cart_items", 7, func(ChangeEvent) {})
	require.NoError(t, err)

	assert.Equal(t, 3, manager.ActiveChannels())
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	manager, transport := newTestManager()

	_, err := manager.Subscribe("cart_items", 42, func(ChangeEvent) {})
	require.NoError(t, err)

	manager.Unsubscribe("cart_items", 42)

	assert.Equal(t, 1, transport.channels[0].closed)
	assert.Equal(t, 0, manager.ActiveChannels())
}

func TestUnsubscribeUnknownKeyIsNoop(t *testing.T) {
	manager, _ := newTestManager()

	manager.Unsubscribe("cart_items", 99)

	assert.Equal(t, 0, manager.ActiveChannels())
}

func TestUnsubscribeAllIsIdempotent(t *testing.T) {
	manager, transport := newTestManager()

	_, err := manager.Subscribe("cart_items", 42, func(ChangeEvent) {})
	require.NoError(t, err)
	_, err = manager.Subscribe("notifications", 42, func(ChangeEvent) {})
	require.NoError(t, err)

	manager.UnsubscribeAll()
	manager.UnsubscribeAll()

	assert.Equal(t, 0, manager.ActiveChannels())
	for _, channel := range transport.channels {
		assert.Equal(t, 1, channel.closed)
	}
}
