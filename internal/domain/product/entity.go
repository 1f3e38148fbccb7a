// internal/domain/product/entity.go
package product

import (
	"time"

	"gorm.io/gorm"
)

// Product represents the product entity
type Product struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	SellerID        uint           `gorm:"not null;index" json:"seller_id"`
	SKU             string         `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Name            string         `gorm:"not null;size:255" json:"name"`
	Slug            string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description     string         `gorm:"type:text" json:"description"`
	Price           float64        `gorm:"not null" json:"price"`
	DiscountPercent float64        `gorm:"default:0" json:"discount_percent"`
	Category        string         `gorm:"size:100;index" json:"category"`
	Image           string         `gorm:"size:500" json:"image"`
	IsActive        bool           `gorm:"default:true" json:"is_active"`
	Quantity        int            `gorm:"default:0" json:"quantity"`
	RatingAverage   float64        `gorm:"default:0" json:"rating_average"`
	RatingCount     int            `gorm:"default:0" json:"rating_count"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Reviews []Review `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"reviews,omitempty"`
}

// Review represents a customer product review
type Review struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ProductID uint           `gorm:"not null;index" json:"product_id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Rating    int            `gorm:"not null" json:"rating"` // 1..5
	Title     string         `gorm:"size:255" json:"title"`
	Comment   string         `gorm:"type:text" json:"comment"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides
func (Product) TableName() string { return "products" }
func (Review) TableName() string  { return "reviews" }

// EffectivePrice returns the discounted unit price
func (p *Product) EffectivePrice() float64 {
	return p.Price * (1 - p.DiscountPercent/100)
}
