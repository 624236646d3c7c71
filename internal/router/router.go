// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/medisure/medisure-backend/internal/config"
	"github.com/medisure/medisure-backend/internal/handlers"
	"github.com/medisure/medisure-backend/internal/middleware"
	"github.com/medisure/medisure-backend/internal/models"
	"github.com/medisure/medisure-backend/internal/oracle"
	"github.com/medisure/medisure-backend/internal/services"
	"github.com/medisure/medisure-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config, oracleClient oracle.Client) *gin.Engine {
	// Initialize services
	custodyService := services.NewCustodyService(oracleClient, cfg)
	provenanceService := services.NewProvenanceService(db)
	transferService := services.NewTransferService(db, custodyService)
	batchService := services.NewBatchService(db, oracleClient)
	authService := services.NewAuthService(db, cfg)
	shopService := services.NewShopService(db)
	directoryService := services.NewDirectoryService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	batchHandler := handlers.NewBatchHandler(batchService, provenanceService)
	transferHandler := handlers.NewTransferHandler(transferService, provenanceService)
	shopHandler := handlers.NewShopHandler(shopService)
	directoryHandler := handlers.NewDirectoryHandler(directoryService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Rate limiters share per-IP state; the test environment runs without
	// them so suites are not throttled.
	rateLimited := cfg.Environment != "test"

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	if rateLimited {
		r.Use(middleware.GeneralRateLimit())
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		if rateLimited {
			auth.Use(middleware.AuthRateLimit())
		}
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/signin", authHandler.Signin)
		}

		// Public QR verification
		verify := v1.Group("/verify")
		if rateLimited {
			verify.Use(middleware.VerifyRateLimit())
		}
		{
			verify.GET("/:qr_code", batchHandler.VerifyByQRCode)
		}

		// Batch routes
		batches := v1.Group("/batches")
		{
			batches.GET("/:batch_id/journey", middleware.OptionalAuth(), batchHandler.GetJourney)

			protected := batches.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", middleware.RoleRequired(models.UserRoleManufacturer), batchHandler.MintBatch)
			}
		}

		// Manufacturer dashboard
		dashboard := v1.Group("/dashboard")
		dashboard.Use(middleware.AuthRequired(), middleware.RoleRequired(models.UserRoleManufacturer))
		{
			dashboard.GET("/stats", batchHandler.GetDashboardStats)
		}

		// Custody transfer routes
		transfers := v1.Group("/transfers")
		transfers.Use(middleware.AuthRequired())
		{
			transfers.POST("", middleware.RoleRequired(models.UserRoleManufacturer, models.UserRoleDistributor), transferHandler.TransferBatch)
			transfers.POST("/receive", middleware.RoleRequired(models.UserRolePharmacy), transferHandler.ReceiveBatch)
		}

		// Pharmacy routes
		pharmacy := v1.Group("/pharmacy")
		{
			pharmacy.GET("/:id/inventory", shopHandler.GetPharmacyInventory)
			pharmacy.GET("/dashboard", middleware.AuthRequired(), middleware.RoleRequired(models.UserRolePharmacy), transferHandler.GetPharmacyDashboard)
		}

		// Shop routes
		shop := v1.Group("/shop")
		{
			shop.GET("/drugs", shopHandler.GetMarketplaceDrugs)
		}

		// Cart routes
		cart := v1.Group("/cart")
		cart.Use(middleware.AuthRequired())
		{
			cart.GET("", shopHandler.GetCart)
			cart.POST("/items", shopHandler.AddToCart)
			cart.PUT("/items/:id", shopHandler.UpdateCartItem)
			cart.DELETE("/items/:id", shopHandler.RemoveFromCart)
			cart.DELETE("", shopHandler.ClearCart)
		}

		// Order routes
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.POST("", shopHandler.CreateOrder)
			orders.GET("", shopHandler.GetUserOrders)
			orders.GET("/:id", shopHandler.GetOrder)
			orders.PUT("/:id/status", middleware.RoleRequired(models.UserRolePharmacy), shopHandler.UpdateOrderStatus)
		}

		// Directory routes
		directory := v1.Group("/directory")
		directory.Use(middleware.AuthRequired())
		{
			directory.GET("/manufacturers", directoryHandler.GetManufacturers)
			directory.GET("/distributors", directoryHandler.GetDistributors)
			directory.GET("/pharmacies", directoryHandler.GetPharmacies)
			directory.GET("/users", directoryHandler.GetUsersByRole)
			directory.GET("/users/:id", directoryHandler.GetUserByID)
		}
	}

	return r
}
