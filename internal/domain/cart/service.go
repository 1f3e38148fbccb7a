// internal/domain/cart/service.go
package cart

import (
	"context"
	"fmt"

	"github.com/shophub/storefront-core/internal/config"
	"github.com/shophub/storefront-core/internal/domain/product"
	"github.com/shophub/storefront-core/internal/realtime"
	storecart "github.com/shophub/storefront-core/internal/store/cart"
	"gorm.io/gorm"
)

// Service handles cart row reads and writes. Every write publishes a
// change event on the user's cart channel so subscribed clients sync.
type Service struct {
	db             *gorm.DB
	config         *config.Config
	publisher      *realtime.Publisher
	productService *product.Service
}

// NewService creates a new cart service
func NewService(db *gorm.DB, cfg *config.Config, publisher *realtime.Publisher) *Service {
	return &Service{
		db:             db,
		config:         cfg,
		publisher:      publisher,
		productService: product.NewService(db, cfg),
	}
}

// ListCartLines retrieves the authoritative cart rows for a user
func (s *Service) ListCartLines(ctx context.Context, userID uint) ([]storecart.Line, error) {
	var items []CartItem
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart rows: %w", err)
	}

	lines := make([]storecart.Line, len(items))
	for i := range items {
		lines[i] = items[i].ToLine()
	}
	return lines, nil
}

// SaveCartLine creates or replaces the cart row for one product
func (s *Service) SaveCartLine(ctx context.Context, userID uint, line storecart.Line) error {
	if line.Quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}

	var item CartItem
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, line.ProductID).
		First(&item)

	eventType := realtime.EventUpdate
	if result.Error == gorm.ErrRecordNotFound {
		item = CartItem{
			UserID:          userID,
			ProductID:       line.ProductID,
			Name:            line.Name,
			UnitPrice:       line.UnitPrice,
			DiscountPercent: line.DiscountPercent,
			Quantity:        line.Quantity,
			ImageRef:        line.ImageRef,
			SellerID:        line.SellerID,
		}
		if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
			return fmt.Errorf("failed to create cart row: %w", err)
		}
		eventType = realtime.EventInsert
	} else if result.Error != nil {
		return fmt.Errorf("failed to read cart row: %w", result.Error)
	} else {
		item.Quantity = line.Quantity
		if err := s.db.WithContext(ctx).Save(&item).Error; err != nil {
			return fmt.Errorf("failed to update cart row: %w", err)
		}
	}

	s.publisher.Publish(ctx, CartItem{}.TableName(), userID, eventType, item)
	return nil
}

// DeleteCartLine removes the cart row for one product. Deleting a row
// that does not exist is not an error.
func (s *Service) DeleteCartLine(ctx context.Context, userID uint, productID uint) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&CartItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete cart row: %w", err)
	}

	s.publisher.Publish(ctx, CartItem{}.TableName(), userID, realtime.EventDelete, nil)
	return nil
}

// ClearCartLines removes all cart rows for a user
func (s *Service) ClearCartLines(ctx context.Context, userID uint) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&CartItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear cart rows: %w", err)
	}

	s.publisher.Publish(ctx, CartItem{}.TableName(), userID, realtime.EventDelete, nil)
	return nil
}

// ListRecommendations fetches related products for the cart display
func (s *Service) ListRecommendations(ctx context.Context, productIDs []uint) ([]storecart.Recommendation, error) {
	return s.productService.ListRecommendations(ctx, productIDs)
}
