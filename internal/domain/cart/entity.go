// internal/domain/cart/entity.go
package cart

import (
	"time"

	"gorm.io/gorm"

	storecart "github.com/shophub/storefront-core/internal/store/cart"
)

// CartItem represents a cart row stored in the database. One row per
// (user, product); the client merges duplicates before they get here.
type CartItem struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserID          uint           `gorm:"not null;index:idx_cart_user_product,unique" json:"user_id"`
	ProductID       uint           `gorm:"not null;index:idx_cart_user_product,unique" json:"product_id"`
	Name            string         `gorm:"size:255" json:"name"`
	UnitPrice       float64        `gorm:"not null" json:"unit_price"` // Price at time of adding
	DiscountPercent float64        `gorm:"default:0" json:"discount_percent"`
	Quantity        int            `gorm:"not null;default:1" json:"quantity"`
	ImageRef        string         `gorm:"size:500" json:"image_ref"`
	SellerID        uint           `gorm:"index" json:"seller_id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (CartItem) TableName() string {
	return "cart_items"
}

// ToLine converts a cart row to the client line shape
func (i *CartItem) ToLine() storecart.Line {
	return storecart.Line{
		ProductID:       i.ProductID,
		Name:            i.Name,
		UnitPrice:       i.UnitPrice,
		DiscountPercent: i.DiscountPercent,
		Quantity:        i.Quantity,
		ImageRef:        i.ImageRef,
		SellerID:        i.SellerID,
	}
}
