// internal/store/persist/persist.go
package persist

import "errors"

// ErrNotFound is returned when no snapshot exists under a key
var ErrNotFound = errors.New("snapshot not found")

// Store persists small named JSON snapshots of client state so a
// restart restores the last-known state before any network round-trip
type Store interface {
	Save(key string, value interface{}) error
	Load(key string, dest interface{}) error
	Delete(key string) error
}
