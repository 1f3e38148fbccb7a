// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/shophub/storefront-core/internal/config"
	"github.com/shophub/storefront-core/internal/interfaces/http/handlers"
	"github.com/shophub/storefront-core/internal/interfaces/http/middleware"
	"github.com/shophub/storefront-core/internal/realtime"
	"gorm.io/gorm"
)

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)

	auth := rg.Group("/auth")
	{
		// Public auth endpoints
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		// Protected auth endpoints
		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/profile", authHandler.GetProfile)
		}
	}
}

// SetupProductRoutes sets up product related routes
func SetupProductRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, cfg)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)
		products.GET("/:id/reviews", productHandler.GetReviews)

		// Review submission requires authentication
		authed := products.Group("")
		authed.Use(middleware.AuthMiddleware(cfg))
		{
			authed.POST("/:id/reviews", productHandler.CreateReview)
		}

		// Catalog management is restricted to sellers and admins
		sellers := products.Group("")
		sellers.Use(middleware.AuthMiddleware(cfg))
		sellers.Use(middleware.RequireRole("seller", "admin"))
		{
			sellers.POST("", productHandler.CreateProduct)
			sellers.PUT("/:id", productHandler.UpdateProduct)
		}
	}
}

// SetupCartRoutes sets up cart related routes
func SetupCartRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config, publisher *realtime.Publisher) {
	cartHandler := handlers.NewCartHandler(db, cfg, publisher)

	cart := rg.Group("/cart")
	cart.Use(middleware.AuthMiddleware(cfg))
	{
		cart.GET("", cartHandler.GetCart)
		cart.PUT("/items", cartHandler.SaveCartLine)
		cart.DELETE("/items/:product_id", cartHandler.DeleteCartLine)
		cart.DELETE("", cartHandler.ClearCart)
		cart.GET("/recommendations", cartHandler.GetRecommendations)
	}
}

// SetupNotificationRoutes sets up notification related routes
func SetupNotificationRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config, publisher *realtime.Publisher) {
	notificationHandler := handlers.NewNotificationHandler(db, cfg, publisher)

	notifications := rg.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware(cfg))
	{
		notifications.GET("", notificationHandler.GetNotifications)
		notifications.PUT("/:id/read", notificationHandler.MarkAsRead)
		notifications.PUT("/read-all", notificationHandler.MarkAllAsRead)
	}
}

// SetupWishlistRoutes sets up wishlist related routes
func SetupWishlistRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config, publisher *realtime.Publisher) {
	wishlistHandler := handlers.NewWishlistHandler(db, cfg, publisher)

	wishlist := rg.Group("/wishlist")
	wishlist.Use(middleware.AuthMiddleware(cfg))
	{
		wishlist.GET("", wishlistHandler.GetWishlist)
		wishlist.POST("/items", wishlistHandler.AddToWishlist)
		wishlist.DELETE("/items/:product_id", wishlistHandler.RemoveFromWishlist)
	}
}

// SetupOrderRoutes sets up order related routes
func SetupOrderRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config, publisher *realtime.Publisher) {
	orderHandler := handlers.NewOrderHandler(db, cfg, publisher)

	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.GET("", orderHandler.GetOrders)
		orders.POST("", orderHandler.CreateOrder)
		orders.GET("/:id", orderHandler.GetOrder)

		// Status transitions are restricted to sellers and admins
		managed := orders.Group("")
		managed.Use(middleware.RequireRole("seller", "admin"))
		{
			managed.PUT("/:id/status", orderHandler.UpdateOrderStatus)
		}
	}
}
