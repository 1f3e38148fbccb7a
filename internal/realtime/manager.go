// internal/realtime/manager.go
package realtime

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Manager tracks open push channels and guarantees at most one live
// channel per (table, entity) key. Re-subscribing under an existing key
// replaces the old channel so callbacks are never delivered twice.
type Manager struct {
	mu        sync.Mutex
	transport Transport
	logger    *logrus.Logger
	channels  map[string]Channel
}

// Handle identifies a subscription created by Subscribe
type Handle struct {
	Table    string
	EntityID uint
}

// NewManager creates a subscription manager over the given transport
func NewManager(transport Transport, logger *logrus.Logger) *Manager {
	return &Manager{
		transport: transport,
		logger:    logger,
		channels:  make(map[string]Channel),
	}
}

func subscriptionKey(table string, entityID uint) string {
	return fmt.Sprintf("%s:%d", table, entityID)
}

// Subscribe opens a push channel for one entity's rows and registers
// the callback for its change events. An existing channel under the
// same key is closed first.
func (m *Manager) Subscribe(table string, entityID uint, callback func(ChangeEvent)) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := subscriptionKey(table, entityID)

	if existing, ok := m.channels[key]; ok {
		if err := existing.Close(); err != nil {
			m.logger.WithField("channel", key).WithField("error", err.Error()).
				Warn("Failed to close replaced push channel")
		}
		delete(m.channels, key)
	}

	channel, err := m.transport.Open(table, entityID, callback)
	if err != nil {
		return Handle{}, fmt.Errorf("failed to subscribe to %s: %w", key, err)
	}

	m.channels[key] = channel
	m.logger.WithField("channel", key).Debug("Push channel opened")

	return Handle{Table: table, EntityID: entityID}, nil
}

// Unsubscribe closes and forgets the channel for one key.
// It is a no-op when no channel exists.
func (m *Manager) Unsubscribe(table string, entityID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := subscriptionKey(table, entityID)

	channel, ok := m.channels[key]
	if !ok {
		return
	}

	if err := channel.Close(); err != nil {
		m.logger.WithField("channel", key).WithField("error", err.Error()).
			Warn("Failed to close push channel")
	}
	delete(m.channels, key)
	m.logger.WithField("channel", key).Debug("Push channel closed")
}

// UnsubscribeAll closes every tracked channel. Used on logout.
// Idempotent: calling it on an empty manager is a no-op.
func (m *Manager) UnsubscribeAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, channel := range m.channels {
		if err := channel.Close(); err != nil {
			m.logger.WithField("channel", key).WithField("error", err.Error()).
				Warn("Failed to close push channel")
		}
		delete(m.channels, key)
	}
}

// ActiveChannels returns the number of currently tracked channels
func (m *Manager) ActiveChannels() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.channels)
}
