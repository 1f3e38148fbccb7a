// internal/domain/notification/entity.go
package notification

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Notification represents a notification row. Rows are created
// server-side (order status changes, cart reminders, wishlist changes)
// and only ever flipped to read by the client; there is no delete path.
type Notification struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	Title     string          `gorm:"size:255;not null" json:"title"`
	Message   string          `gorm:"type:text" json:"message"`
	Type      string          `gorm:"size:20;not null" json:"type"` // order, cart, wishlist, review, system
	IsRead    bool            `gorm:"default:false;index" json:"is_read"`
	Data      json.RawMessage `gorm:"type:jsonb" json:"data,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Notification) TableName() string {
	return "notifications"
}
