// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shophub/storefront-core/internal/config"
	"github.com/shophub/storefront-core/internal/domain/cart"
	"github.com/shophub/storefront-core/internal/interfaces/http/middleware"
	"github.com/shophub/storefront-core/internal/realtime"
	storecart "github.com/shophub/storefront-core/internal/store/cart"
	"gorm.io/gorm"
)

// CartHandler handles server-side cart endpoints
type CartHandler struct {
	cartService *cart.Service
	config      *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(db *gorm.DB, cfg *config.Config, publisher *realtime.Publisher) *CartHandler {
	return &CartHandler{
		cartService: cart.NewService(db, cfg, publisher),
		config:      cfg,
	}
}

// GetCart handles cart retrieval
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	lines, err := h.cartService.ListCartLines(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"items": lines,
		},
	})
}

// SaveCartLine handles cart line upserts
func (h *CartHandler) SaveCartLine(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	var line storecart.Line
	if err := c.ShouldBindJSON(&line); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if line.ProductID == 0 || line.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Product ID and a positive quantity are required",
		})
		return
	}

	if err := h.cartService.SaveCartLine(c.Request.Context(), userID, line); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to save cart item",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item saved successfully",
	})
}

// DeleteCartLine handles cart line removal
func (h *CartHandler) DeleteCartLine(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	if err := h.cartService.DeleteCartLine(c.Request.Context(), userID, uint(productID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to remove cart item",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item removed successfully",
	})
}

// ClearCart handles clearing the whole cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	if err := h.cartService.ClearCartLines(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clear cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

// GetRecommendations handles cart-based product recommendations
func (h *CartHandler) GetRecommendations(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	lines, err := h.cartService.ListCartLines(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	productIDs := make([]uint, 0, len(lines))
	for _, line := range lines {
		productIDs = append(productIDs, line.ProductID)
	}

	recommendations, err := h.cartService.ListRecommendations(c.Request.Context(), productIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve recommendations",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": recommendations,
	})
}
