// internal/domain/order/service.go
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shophub/storefront-core/internal/config"
	"github.com/shophub/storefront-core/internal/domain/cart"
	"github.com/shophub/storefront-core/internal/domain/notification"
	"github.com/shophub/storefront-core/internal/domain/product"
	storenotification "github.com/shophub/storefront-core/internal/store/notification"
	"gorm.io/gorm"
)

// Service handles order business logic
type Service struct {
	db                  *gorm.DB
	config              *config.Config
	cartService         *cart.Service
	notificationService *notification.Service
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config, cartService *cart.Service, notificationService *notification.Service) *Service {
	return &Service{
		db:                  db,
		config:              cfg,
		cartService:         cartService,
		notificationService: notificationService,
	}
}

// CreateOrder creates an order from the user's current cart rows,
// decrements stock and clears the cart. The cart clear publishes a
// change event, so the client's cart store syncs to empty.
func (s *Service) CreateOrder(ctx context.Context, userID uint) (*Order, error) {
	lines, err := s.cartService.ListCartLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	order := Order{
		OrderNumber: s.generateOrderNumber(),
		UserID:      userID,
		Status:      OrderStatusPending,
	}

	for _, line := range lines {
		lineTotal := float64(line.Quantity) * line.EffectivePrice()
		order.SubtotalAmount += float64(line.Quantity) * line.UnitPrice
		order.TotalAmount += lineTotal
		order.Items = append(order.Items, OrderItem{
			ProductID:       line.ProductID,
			SellerID:        line.SellerID,
			Name:            line.Name,
			UnitPrice:       line.UnitPrice,
			DiscountPercent: line.DiscountPercent,
			Quantity:        line.Quantity,
		})
	}
	order.DiscountAmount = order.SubtotalAmount - order.TotalAmount

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Validate and decrement stock
		for _, item := range order.Items {
			var prod product.Product
			if err := tx.Where("id = ? AND is_active = ?", item.ProductID, true).First(&prod).Error; err != nil {
				return fmt.Errorf("product %d is no longer available", item.ProductID)
			}
			if prod.Quantity < item.Quantity {
				return fmt.Errorf("insufficient inventory for %s. Available: %d", prod.Name, prod.Quantity)
			}
			if err := tx.Model(&prod).Update("quantity", prod.Quantity-item.Quantity).Error; err != nil {
				return fmt.Errorf("failed to reserve inventory: %w", err)
			}
		}

		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.cartService.ClearCartLines(ctx, userID); err != nil {
		return nil, fmt.Errorf("order created but cart clear failed: %w", err)
	}

	// Best effort
	_ = s.notificationService.Notify(ctx, userID,
		string(storenotification.TypeOrder),
		"Order placed",
		fmt.Sprintf("Your order %s has been placed", order.OrderNumber),
		map[string]interface{}{"order_id": order.ID, "order_number": order.OrderNumber},
	)

	return &order, nil
}

// GetUserOrders retrieves a user's orders, newest first
func (s *Service) GetUserOrders(ctx context.Context, userID uint) ([]Order, error) {
	var orders []Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}
	return orders, nil
}

// GetOrder retrieves one order scoped to its owner
func (s *Service) GetOrder(ctx context.Context, userID, orderID uint) (*Order, error) {
	var order Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if err != nil {
		return nil, fmt.Errorf("order not found")
	}
	return &order, nil
}

// UpdateOrderStatus moves an order through its lifecycle and notifies
// the buyer
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID uint, status OrderStatus) error {
	var order Order
	if err := s.db.WithContext(ctx).First(&order, orderID).Error; err != nil {
		return fmt.Errorf("order not found")
	}

	if !s.isValidStatusTransition(order.Status, status) {
		return fmt.Errorf("invalid status transition from %s to %s", order.Status, status)
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{"status": status}
	switch status {
	case OrderStatusShipped:
		updates["shipped_at"] = now
	case OrderStatusDelivered:
		updates["delivered_at"] = now
	}

	if err := s.db.WithContext(ctx).Model(&order).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	// Best effort
	_ = s.notificationService.Notify(ctx, order.UserID,
		string(storenotification.TypeOrder),
		"Order update",
		fmt.Sprintf("Order %s is now %s", order.OrderNumber, status),
		map[string]interface{}{"order_id": order.ID, "status": status},
	)

	return nil
}

// isValidStatusTransition enforces the order lifecycle
func (s *Service) isValidStatusTransition(from, to OrderStatus) bool {
	transitions := map[OrderStatus][]OrderStatus{
		OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
		OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
		OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
		OrderStatusShipped:    {OrderStatusDelivered},
		OrderStatusDelivered:  {},
		OrderStatusCancelled:  {},
	}

	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// generateOrderNumber generates a unique human-readable order number
func (s *Service) generateOrderNumber() string {
	return fmt.Sprintf("SH-%s-%s",
		time.Now().UTC().Format("20060102"),
		uuid.New().String()[:8],
	)
}
