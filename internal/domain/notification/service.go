// internal/domain/notification/service.go
package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shophub/storefront-core/internal/config"
	"github.com/shophub/storefront-core/internal/realtime"
	storenotification "github.com/shophub/storefront-core/internal/store/notification"
	"gorm.io/gorm"
)

// listLimit bounds one history fetch; older entries are not paged in
// this surface
const listLimit = 100

// Service handles notification rows. Inserts publish a change event on
// the user's notification channel so subscribed clients prepend the new
// entry without a refetch.
type Service struct {
	db        *gorm.DB
	config    *config.Config
	publisher *realtime.Publisher
}

// NewService creates a new notification service
func NewService(db *gorm.DB, cfg *config.Config, publisher *realtime.Publisher) *Service {
	return &Service{
		db:        db,
		config:    cfg,
		publisher: publisher,
	}
}

// ListNotifications retrieves the recent notification history for a
// user, newest first
func (s *Service) ListNotifications(ctx context.Context, userID uint) ([]storenotification.Notification, error) {
	var rows []Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(listLimit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve notifications: %w", err)
	}

	items := make([]storenotification.Notification, len(rows))
	for i, row := range rows {
		items[i] = toClientNotification(row)
	}
	return items, nil
}

// MarkNotificationRead flips one notification to read. is_read is
// monotonic: re-marking a read notification is a no-op.
func (s *Service) MarkNotificationRead(ctx context.Context, userID uint, id string) error {
	result := s.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("notification not found")
	}
	return nil
}

// MarkAllNotificationsRead flips every unread notification for a user
// in one bulk update
func (s *Service) MarkAllNotificationsRead(ctx context.Context, userID uint) error {
	err := s.db.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark all notifications read: %w", err)
	}
	return nil
}

// Notify creates a notification row and publishes the insert event
func (s *Service) Notify(ctx context.Context, userID uint, notificationType, title, message string, data interface{}) error {
	row := Notification{
		ID:      uuid.New().String(),
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    notificationType,
	}

	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to encode notification data: %w", err)
		}
		row.Data = encoded
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	s.publisher.Publish(ctx, Notification{}.TableName(), userID, realtime.EventInsert, toClientNotification(row))
	return nil
}

// toClientNotification converts a row to the client notification shape
func toClientNotification(row Notification) storenotification.Notification {
	return storenotification.Notification{
		ID:        row.ID,
		UserID:    row.UserID,
		Title:     row.Title,
		Message:   row.Message,
		Type:      storenotification.Type(row.Type),
		IsRead:    row.IsRead,
		Data:      row.Data,
		CreatedAt: row.CreatedAt,
	}
}
