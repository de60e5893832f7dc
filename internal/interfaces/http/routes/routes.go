// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/framecraft/storefront-backend/internal/config"
	"github.com/framecraft/storefront-backend/internal/domain/admin"
	"github.com/framecraft/storefront-backend/internal/domain/analytics"
	"github.com/framecraft/storefront-backend/internal/domain/cart"
	"github.com/framecraft/storefront-backend/internal/domain/checkout"
	"github.com/framecraft/storefront-backend/internal/domain/inquiry"
	"github.com/framecraft/storefront-backend/internal/domain/order"
	"github.com/framecraft/storefront-backend/internal/domain/payment"
	"github.com/framecraft/storefront-backend/internal/domain/product"
	"github.com/framecraft/storefront-backend/internal/domain/promo"
	"github.com/framecraft/storefront-backend/internal/domain/settings"
	"github.com/framecraft/storefront-backend/internal/domain/wishlist"
	"github.com/framecraft/storefront-backend/internal/interfaces/http/handlers"
	"github.com/framecraft/storefront-backend/internal/interfaces/http/middleware"
	"github.com/framecraft/storefront-backend/internal/pkg/email"
	"github.com/framecraft/storefront-backend/internal/pkg/pdf"
)

// Setup wires all services and registers every route under /api/v1
func Setup(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	// Services
	products := product.NewService(db)
	reviews := product.NewReviewService(db)
	carts := cart.NewService(redisClient, products, cfg)
	promos := promo.NewService(db, redisClient, cfg)
	store := settings.NewService(db)
	orders := order.NewService(db, cfg)
	gateway := payment.NewClient(cfg)
	snapshots := checkout.NewRedisSnapshotStore(redisClient, cfg.Checkout.SnapshotTTL)
	admins := admin.NewService(db, cfg)
	stats := analytics.NewService(db)
	inquiries := inquiry.NewService(db)
	wishlists := wishlist.NewService(db, products)

	mailer, err := email.NewService(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize email service")
	}
	invoices, err := pdf.NewGenerator()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize invoice generator")
	}

	checkouts := checkout.NewService(carts, promos, store, orders, gateway, snapshots, mailer, cfg)

	// Handlers
	productHandler := handlers.NewProductHandler(products)
	reviewHandler := handlers.NewReviewHandler(reviews)
	cartHandler := handlers.NewCartHandler(carts)
	promoHandler := handlers.NewPromoHandler(promos, carts)
	checkoutHandler := handlers.NewCheckoutHandler(checkouts)
	paymentHandler := handlers.NewPaymentHandler(gateway, checkouts)
	orderHandler := handlers.NewOrderHandler(orders, store, invoices)
	settingsHandler := handlers.NewSettingsHandler(store)
	wishlistHandler := handlers.NewWishlistHandler(wishlists)
	inquiryHandler := handlers.NewInquiryHandler(inquiries, mailer)
	adminHandler := handlers.NewAdminHandler(admins, stats)

	// Storefront
	productsGroup := rg.Group("/products")
	{
		productsGroup.GET("", productHandler.List)
		productsGroup.GET("/:id", productHandler.Get)
		productsGroup.GET("/slug/:slug", productHandler.GetBySlug)
		productsGroup.GET("/:id/reviews", reviewHandler.List)
		productsGroup.POST("/:id/reviews", reviewHandler.Create)
	}

	cartGroup := rg.Group("/cart")
	{
		cartGroup.GET("", cartHandler.Get)
		cartGroup.DELETE("", cartHandler.Clear)
		cartGroup.POST("/items", cartHandler.AddItem)
		cartGroup.PUT("/items/:id", cartHandler.UpdateItem)
		cartGroup.DELETE("/items/:id", cartHandler.RemoveItem)
	}

	promoGroup := rg.Group("/promo")
	{
		promoGroup.GET("", promoHandler.Get)
		promoGroup.POST("/apply", promoHandler.Apply)
		promoGroup.DELETE("", promoHandler.Remove)
	}

	checkoutGroup := rg.Group("/checkout")
	{
		checkoutGroup.GET("/quote", checkoutHandler.Quote)
		checkoutGroup.POST("/cod", checkoutHandler.SubmitCOD)
		checkoutGroup.POST("/payment", checkoutHandler.InitiatePayment)
		checkoutGroup.POST("/payment/confirm", checkoutHandler.ConfirmPayment)
		checkoutGroup.POST("/payment/fail", checkoutHandler.FailPayment)
	}

	rg.POST("/webhooks/payment", paymentHandler.Webhook)
	rg.POST("/orders/lookup", orderHandler.Lookup)
	rg.GET("/settings", settingsHandler.Get)
	rg.POST("/contact", inquiryHandler.Create)
	rg.POST("/newsletter/subscribe", inquiryHandler.Subscribe)

	wishlistGroup := rg.Group("/wishlist")
	{
		wishlistGroup.GET("", wishlistHandler.List)
		wishlistGroup.POST("", wishlistHandler.Add)
		wishlistGroup.DELETE("/:id", wishlistHandler.Remove)
	}

	// Back office
	rg.POST("/admin/login", adminHandler.Login)

	adminGroup := rg.Group("/admin")
	adminGroup.Use(middleware.AdminAuth(cfg))
	{
		adminGroup.PUT("/password", adminHandler.ChangePassword)
		adminGroup.GET("/dashboard", adminHandler.Dashboard)
		adminGroup.GET("/dashboard/top-products", adminHandler.TopProducts)

		adminGroup.GET("/products", productHandler.AdminList)
		adminGroup.POST("/products", productHandler.AdminCreate)
		adminGroup.PUT("/products/:id", productHandler.AdminUpdate)
		adminGroup.DELETE("/products/:id", productHandler.AdminDelete)

		adminGroup.GET("/promos", promoHandler.AdminList)
		adminGroup.POST("/promos", promoHandler.AdminCreate)
		adminGroup.PUT("/promos/:id", promoHandler.AdminUpdate)
		adminGroup.DELETE("/promos/:id", promoHandler.AdminDelete)

		adminGroup.GET("/orders", orderHandler.AdminList)
		adminGroup.GET("/orders/:id", orderHandler.AdminGet)
		adminGroup.PUT("/orders/:id/status", orderHandler.AdminUpdateStatus)
		adminGroup.GET("/orders/:id/invoice", orderHandler.AdminInvoice)

		adminGroup.GET("/reviews", reviewHandler.AdminList)
		adminGroup.PUT("/reviews/:id/approve", reviewHandler.AdminApprove)
		adminGroup.DELETE("/reviews/:id", reviewHandler.AdminDelete)

		adminGroup.GET("/inquiries", inquiryHandler.AdminList)
		adminGroup.PUT("/inquiries/:id/resolve", inquiryHandler.AdminResolve)
		adminGroup.GET("/newsletter/subscribers", inquiryHandler.AdminSubscribers)

		adminGroup.PUT("/settings", settingsHandler.AdminUpdate)
	}
}
