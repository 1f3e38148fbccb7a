// internal/store/notification/entity.go
package notification

import (
	"encoding/json"
	"time"
)

// Type tags the event a notification was raised for
type Type string

const (
	TypeOrder    Type = "order"
	TypeCart     Type = "cart"
	TypeWishlist Type = "wishlist"
	TypeReview   Type = "review"
	TypeSystem   Type = "system"
)

// Notification represents one user notification. Notifications are
// created server-side and reach the client either by a list fetch or a
// realtime insert event; the only client-side mutation is mark-read.
type Notification struct {
	ID        string          `json:"id"`
	UserID    uint            `json:"user_id"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Type      Type            `json:"type"`
	IsRead    bool            `json:"is_read"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
