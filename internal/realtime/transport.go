// internal/realtime/transport.go
package realtime

// Channel is an open push channel for a single (table, entity) pair
type Channel interface {
	Close() error
}

// Transport opens push channels filtered to rows owned by one entity.
// Reconnect and retry behavior belongs to the transport implementation;
// the subscription manager does not add its own.
type Transport interface {
	Open(table string, entityID uint, callback func(ChangeEvent)) (Channel, error)
}
