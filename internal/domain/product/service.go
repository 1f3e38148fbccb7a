// internal/domain/product/service.go
package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shophub/storefront-core/internal/config"
	"github.com/shophub/storefront-core/internal/store/cart"
	"gorm.io/gorm"
)

// Service handles product business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page      int     `form:"page,default=1"`
	Limit     int     `form:"limit,default=20"`
	Category  string  `form:"category"`
	SellerID  uint    `form:"seller_id"`
	Search    string  `form:"search"`
	SortBy    string  `form:"sort_by,default=created_at"`
	SortOrder string  `form:"sort_order,default=desc"`
	MinPrice  float64 `form:"min_price"`
	MaxPrice  float64 `form:"max_price"`
	IsActive  *bool   `form:"is_active"`
}

// ProductCreateRequest represents product creation data
type ProductCreateRequest struct {
	SKU             string  `json:"sku"`
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	Price           float64 `json:"price" binding:"required"`
	DiscountPercent float64 `json:"discount_percent"`
	Category        string  `json:"category" binding:"required"`
	Image           string  `json:"image"`
	IsActive        bool    `json:"is_active"`
	Quantity        int     `json:"quantity"`
}

// ProductUpdateRequest represents product update data
type ProductUpdateRequest struct {
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	Price           *float64 `json:"price"`
	DiscountPercent *float64 `json:"discount_percent"`
	Category        *string  `json:"category"`
	Image           *string  `json:"image"`
	IsActive        *bool    `json:"is_active"`
	Quantity        *int     `json:"quantity"`
}

// ProductResponse represents product response with pagination
type ProductResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// GetProducts retrieves products with filtering and pagination
func (s *Service) GetProducts(req *ProductListRequest) (*ProductResponse, error) {
	var products []Product
	var total int64

	query := s.db.Model(&Product{})

	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}
	if req.SellerID != 0 {
		query = query.Where("seller_id = ?", req.SellerID)
	}
	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", search, search)
	}
	if req.MinPrice > 0 {
		query = query.Where("price >= ?", req.MinPrice)
	}
	if req.MaxPrice > 0 {
		query = query.Where("price <= ?", req.MaxPrice)
	}
	if req.IsActive != nil {
		query = query.Where("is_active = ?", *req.IsActive)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}
	offset := (req.Page - 1) * req.Limit

	err := query.Order(s.buildOrderClause(req.SortBy, req.SortOrder)).
		Offset(offset).Limit(req.Limit).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))

	return &ProductResponse{
		Products: products,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(id uint) (*Product, error) {
	var product Product
	result := s.db.Where("id = ?", id).First(&product)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product not found")
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}
	return &product, nil
}

// CreateProduct creates a new product for a seller
func (s *Service) CreateProduct(sellerID uint, req *ProductCreateRequest) (*Product, error) {
	sku := req.SKU
	if sku == "" {
		sku = strings.ToUpper(uuid.New().String()[:8])
	}

	product := Product{
		SellerID:        sellerID,
		SKU:             sku,
		Name:            req.Name,
		Slug:            s.generateSlug(req.Name),
		Description:     req.Description,
		Price:           req.Price,
		DiscountPercent: req.DiscountPercent,
		Category:        req.Category,
		Image:           req.Image,
		IsActive:        req.IsActive,
		Quantity:        req.Quantity,
	}

	if err := s.db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return &product, nil
}

// UpdateProduct updates a product. Sellers can only update their own
// products; admins pass sellerID zero to bypass the ownership check.
func (s *Service) UpdateProduct(id, sellerID uint, req *ProductUpdateRequest) (*Product, error) {
	var product Product
	result := s.db.Where("id = ?", id).First(&product)
	if result.Error != nil {
		return nil, fmt.Errorf("product not found")
	}

	if sellerID != 0 && product.SellerID != sellerID {
		return nil, fmt.Errorf("product does not belong to this seller")
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
		updates["slug"] = s.generateSlug(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.DiscountPercent != nil {
		updates["discount_percent"] = *req.DiscountPercent
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}

	if len(updates) > 0 {
		if err := s.db.Model(&product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	return &product, nil
}

// ListRecommendations fetches a small set of related products for the
// "frequently bought together" display: active products sharing a
// category with the given products, excluding the products themselves.
func (s *Service) ListRecommendations(ctx context.Context, productIDs []uint) ([]cart.Recommendation, error) {
	if len(productIDs) == 0 {
		return []cart.Recommendation{}, nil
	}

	var categories []string
	err := s.db.WithContext(ctx).Model(&Product{}).
		Where("id IN ?", productIDs).
		Distinct().Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recommendation categories: %w", err)
	}

	var related []Product
	err = s.db.WithContext(ctx).
		Where("category IN ? AND id NOT IN ? AND is_active = ?", categories, productIDs, true).
		Order("rating_average DESC").
		Limit(8).
		Find(&related).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve recommendations: %w", err)
	}

	recommendations := make([]cart.Recommendation, len(related))
	for i, p := range related {
		recommendations[i] = cart.Recommendation{
			ProductID:       p.ID,
			Name:            p.Name,
			UnitPrice:       p.Price,
			DiscountPercent: p.DiscountPercent,
			ImageRef:        p.Image,
		}
	}

	return recommendations, nil
}

// buildOrderClause builds a safe ORDER BY clause
func (s *Service) buildOrderClause(sortBy, sortOrder string) string {
	allowedSortFields := map[string]bool{
		"created_at":     true,
		"updated_at":     true,
		"name":           true,
		"price":          true,
		"rating_average": true,
	}

	if !allowedSortFields[sortBy] {
		sortBy = "created_at"
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}

// generateSlug generates a URL-friendly slug from a product name
func (s *Service) generateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, " ", "-")

	var cleaned strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			cleaned.WriteRune(r)
		}
	}

	// Suffix to keep slugs unique without a lookup
	return fmt.Sprintf("%s-%s", cleaned.String(), uuid.New().String()[:8])
}
