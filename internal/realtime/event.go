// internal/realtime/event.go
package realtime

import "encoding/json"

// EventType discriminates row change events
type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// ChangeEvent represents a single row change delivered on a push channel
type ChangeEvent struct {
	Table string          `json:"table"`
	Type  EventType       `json:"event_type"`
	Row   json.RawMessage `json:"row,omitempty"`
}
