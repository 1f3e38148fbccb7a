// internal/realtime/redis.go
package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// channelName builds the pub/sub channel name for a (table, entity) pair
func channelName(table string, entityID uint) string {
	return fmt.Sprintf("changes:%s:%d", table, entityID)
}

// RedisTransport delivers change events over Redis pub/sub
type RedisTransport struct {
	redisClient *redis.Client
	logger      *logrus.Logger
}

// NewRedisTransport creates a Redis-backed push transport
func NewRedisTransport(redisClient *redis.Client, logger *logrus.Logger) *RedisTransport {
	return &RedisTransport{
		redisClient: redisClient,
		logger:      logger,
	}
}

// redisChannel wraps one pub/sub subscription
type redisChannel struct {
	pubsub *redis.PubSub
	cancel context.CancelFunc
}

// Close closes the underlying pub/sub subscription
func (c *redisChannel) Close() error {
	c.cancel()
	return c.pubsub.Close()
}

// Open subscribes to the change channel for one entity's rows and
// dispatches decoded events to the callback until the channel is closed
func (t *RedisTransport) Open(table string, entityID uint, callback func(ChangeEvent)) (Channel, error) {
	ctx, cancel := context.WithCancel(context.Background())
	pubsub := t.redisClient.Subscribe(ctx, channelName(table, entityID))

	// Confirm the subscription before returning so events published
	// after Open returns are not missed
	if _, err := pubsub.Receive(ctx); err != nil {
		cancel()
		pubsub.Close()
		return nil, fmt.Errorf("failed to open push channel for %s: %w", channelName(table, entityID), err)
	}

	go func() {
		for msg := range pubsub.Channel() {
			var event ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				t.logger.WithFields(logrus.Fields{
					"channel": msg.Channel,
					"error":   err.Error(),
				}).Warn("Discarding malformed change event")
				continue
			}
			callback(event)
		}
	}()

	return &redisChannel{pubsub: pubsub, cancel: cancel}, nil
}

// Publisher emits change events to the push transport. Domain services
// publish after each relevant row write.
type Publisher struct {
	redisClient *redis.Client
	logger      *logrus.Logger
}

// NewPublisher creates a change event publisher
func NewPublisher(redisClient *redis.Client, logger *logrus.Logger) *Publisher {
	return &Publisher{
		redisClient: redisClient,
		logger:      logger,
	}
}

// Publish emits one change event for an entity's row. Failures are
// logged, not returned: a missed push degrades to the next full sync.
func (p *Publisher) Publish(ctx context.Context, table string, entityID uint, eventType EventType, row interface{}) {
	payload := ChangeEvent{
		Table: table,
		Type:  eventType,
	}

	if row != nil {
		data, err := json.Marshal(row)
		if err != nil {
			p.logger.WithField("table", table).WithField("error", err.Error()).
				Warn("Failed to encode change event row")
		} else {
			payload.Row = data
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.WithField("table", table).WithField("error", err.Error()).
			Warn("Failed to encode change event")
		return
	}

	if err := p.redisClient.Publish(ctx, channelName(table, entityID), data).Err(); err != nil {
		p.logger.WithFields(logrus.Fields{
			"table":     table,
			"entity_id": entityID,
			"error":     err.Error(),
		}).Warn("Failed to publish change event")
	}
}
