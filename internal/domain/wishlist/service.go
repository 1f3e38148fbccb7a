// internal/domain/wishlist/service.go
package wishlist

import (
	"context"
	"fmt"

	"github.com/shophub/storefront-core/internal/config"
	"github.com/shophub/storefront-core/internal/domain/notification"
	"github.com/shophub/storefront-core/internal/domain/product"
	storenotification "github.com/shophub/storefront-core/internal/store/notification"
	"gorm.io/gorm"
)

// Service handles wishlist business logic
type Service struct {
	db                  *gorm.DB
	config              *config.Config
	notificationService *notification.Service
}

// NewService creates a new wishlist service
func NewService(db *gorm.DB, cfg *config.Config, notificationService *notification.Service) *Service {
	return &Service{
		db:                  db,
		config:              cfg,
		notificationService: notificationService,
	}
}

// WishlistItemResponse represents a wishlist item with product details
// and the discounted price the storefront shows next to it
type WishlistItemResponse struct {
	ID             uint             `json:"id"`
	ProductID      uint             `json:"product_id"`
	Product        *product.Product `json:"product,omitempty"`
	EffectivePrice float64          `json:"effective_price"`
}

// GetWishlist retrieves the wishlist for a user with product details
func (s *Service) GetWishlist(ctx context.Context, userID uint) ([]WishlistItemResponse, error) {
	var items []WishlistItem
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve wishlist: %w", err)
	}

	responses := make([]WishlistItemResponse, len(items))
	for i, item := range items {
		responses[i] = WishlistItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
		}

		var prod product.Product
		if err := s.db.WithContext(ctx).Where("id = ?", item.ProductID).First(&prod).Error; err == nil {
			responses[i].Product = &prod
			responses[i].EffectivePrice = prod.EffectivePrice()
		}
	}

	return responses, nil
}

// AddToWishlist adds a product to the user's wishlist. Adding a product
// that is already wishlisted is a no-op.
func (s *Service) AddToWishlist(ctx context.Context, userID, productID uint) error {
	var prod product.Product
	if err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", productID, true).First(&prod).Error; err != nil {
		return fmt.Errorf("product not found or inactive")
	}

	var existing WishlistItem
	result := s.db.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID).First(&existing)
	if result.Error == nil {
		return nil
	}

	item := WishlistItem{
		UserID:    userID,
		ProductID: productID,
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return fmt.Errorf("failed to add to wishlist: %w", err)
	}

	// Best effort
	_ = s.notificationService.Notify(ctx, userID,
		string(storenotification.TypeWishlist),
		"Added to wishlist",
		fmt.Sprintf("%s was added to your wishlist", prod.Name),
		map[string]interface{}{"product_id": productID},
	)

	return nil
}

// RemoveFromWishlist removes a product from the user's wishlist.
// No-op when absent.
func (s *Service) RemoveFromWishlist(ctx context.Context, userID, productID uint) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&WishlistItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	return nil
}
