// internal/store/cart/entity.go
package cart

// Line represents one cart entry, keyed by product identity.
// Quantity is always >= 1; removal, not zero quantity, represents deletion.
type Line struct {
	ProductID       uint    `json:"product_id"`
	Name            string  `json:"name"`
	UnitPrice       float64 `json:"unit_price"`
	DiscountPercent float64 `json:"discount_percent"`
	Quantity        int     `json:"quantity"`
	ImageRef        string  `json:"image_ref,omitempty"`
	SellerID        uint    `json:"seller_id"`
}

// EffectivePrice returns the discounted unit price
func (l Line) EffectivePrice() float64 {
	return l.UnitPrice * (1 - l.DiscountPercent/100)
}

// Recommendation represents a related product shown alongside the cart
type Recommendation struct {
	ProductID       uint    `json:"product_id"`
	Name            string  `json:"name"`
	UnitPrice       float64 `json:"unit_price"`
	DiscountPercent float64 `json:"discount_percent"`
	ImageRef        string  `json:"image_ref,omitempty"`
}
