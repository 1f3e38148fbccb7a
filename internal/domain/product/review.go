// internal/domain/product/review.go
package product

import (
	"fmt"
	"math"

	"gorm.io/gorm"
)

// CreateReviewRequest represents review creation data
type CreateReviewRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Title     string `json:"title"`
	Comment   string `json:"comment"`
}

// CreateReview creates a product review and recomputes the product's
// rating aggregate in the same transaction, mirroring the trigger the
// managed backend would run on the reviews table.
func (s *Service) CreateReview(userID uint, req *CreateReviewRequest) (*Review, error) {
	// One review per user per product
	var existing Review
	result := s.db.Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&existing)
	if result.Error == nil {
		return nil, fmt.Errorf("you have already reviewed this product")
	}

	// Verify product exists and is active
	var product Product
	if err := s.db.Where("id = ? AND is_active = ?", req.ProductID, true).First(&product).Error; err != nil {
		return nil, fmt.Errorf("product not found or inactive")
	}

	review := Review{
		ProductID: req.ProductID,
		UserID:    userID,
		Rating:    req.Rating,
		Title:     req.Title,
		Comment:   req.Comment,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}
		return s.updateRatingAggregate(tx, req.ProductID)
	})
	if err != nil {
		return nil, err
	}

	return &review, nil
}

// GetReviews retrieves all reviews for a product, newest first
func (s *Service) GetReviews(productID uint) ([]Review, error) {
	var reviews []Review
	err := s.db.Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve reviews: %w", err)
	}
	return reviews, nil
}

// updateRatingAggregate recomputes rating_average and rating_count
// from the full review set
func (s *Service) updateRatingAggregate(tx *gorm.DB, productID uint) error {
	type aggregate struct {
		Average float64
		Count   int
	}

	var agg aggregate
	err := tx.Model(&Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&agg).Error
	if err != nil {
		return fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	return tx.Model(&Product{}).Where("id = ?", productID).Updates(map[string]interface{}{
		"rating_average": math.Round(agg.Average*100) / 100,
		"rating_count":   agg.Count,
	}).Error
}
