// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/retail-backend/internal/config"
	"github.com/your-org/retail-backend/internal/domain/user"
	"github.com/your-org/retail-backend/internal/interfaces/http/handlers"
	"github.com/your-org/retail-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires all API route groups onto the v1 router group
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	setupAuthRoutes(rg, db, cfg)
	setupUserRoutes(rg, db, cfg)
	setupProductRoutes(rg, db, cfg)
	setupInventoryRoutes(rg, db, redisClient, cfg)
	setupPurchaseRoutes(rg, db, redisClient, cfg)
	setupSalesRoutes(rg, db, cfg)
	setupShippingRoutes(rg, db, cfg)
	setupAccountingRoutes(rg, db, cfg)
	setupSettingsRoutes(rg, db, cfg)
	setupSystemRoutes(rg, db, cfg)
}

func setupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)

	auth := rg.Group("/auth")
	{
		// Public auth endpoints
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

func setupUserRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	userHandler := handlers.NewUserHandler(db, cfg)

	users := rg.Group("/users")
	users.Use(middleware.AuthMiddleware(cfg))
	users.Use(middleware.RequireRoles(user.RoleAdministrator))
	{
		users.POST("", userHandler.CreateUser)
		users.GET("", userHandler.GetUsers)
		users.GET("/:id", userHandler.GetUser)
		users.PUT("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeactivateUser)
	}
}

func setupProductRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, cfg)

	products := rg.Group("/products")
	products.Use(middleware.AuthMiddleware(cfg))
	{
		// Catalog reads are open to every authenticated role
		products.GET("", productHandler.GetProducts)
		products.GET("/search", productHandler.SearchProducts)
		products.GET("/:id", productHandler.GetProduct)

		// Catalog writes are restricted to inventory staff
		manage := products.Group("")
		manage.Use(middleware.RequireRoles(user.RoleInventoryManager, user.RoleAdministrator))
		{
			manage.POST("", productHandler.CreateProduct)
			manage.PUT("/:id", productHandler.UpdateProduct)
			manage.POST("/:id/barcode", productHandler.GenerateBarcode)
		}
	}
}

func setupInventoryRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	inventoryHandler := handlers.NewInventoryHandler(db, redisClient, cfg)

	warehouses := rg.Group("/warehouses")
	warehouses.Use(middleware.AuthMiddleware(cfg))
	{
		warehouses.GET("", inventoryHandler.GetWarehouses)
		warehouses.GET("/:id", inventoryHandler.GetWarehouse)
		warehouses.GET("/:id/inventory", inventoryHandler.GetWarehouseInventory)

		manage := warehouses.Group("")
		manage.Use(middleware.RequireRoles(user.RoleInventoryManager, user.RoleAdministrator))
		{
			manage.POST("", inventoryHandler.CreateWarehouse)
		}
	}

	inventory := rg.Group("/inventory")
	inventory.Use(middleware.AuthMiddleware(cfg))
	{
		inventory.GET("/low-stock", inventoryHandler.GetLowStockProducts)
		inventory.GET("/movements", inventoryHandler.GetStockMovements)

		manage := inventory.Group("")
		manage.Use(middleware.RequireRoles(user.RoleInventoryManager, user.RoleAdministrator))
		{
			manage.PUT("", inventoryHandler.UpdateInventory)
		}
	}

	reports := rg.Group("/reports")
	reports.Use(middleware.AuthMiddleware(cfg))
	reports.Use(middleware.RequireRoles(user.RoleInventoryManager, user.RoleAdministrator))
	{
		reports.GET("/inventory", inventoryHandler.GetInventoryReport)
	}
}

func setupPurchaseRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	purchaseHandler := handlers.NewPurchaseHandler(db, redisClient, cfg)

	orders := rg.Group("/purchase-orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	orders.Use(middleware.RequireRoles(user.RoleInventoryManager, user.RoleAdministrator))
	{
		orders.POST("", purchaseHandler.CreatePurchaseOrder)
		orders.GET("", purchaseHandler.GetPurchaseOrders)
		orders.GET("/:id", purchaseHandler.GetPurchaseOrder)
		orders.PUT("/:id/status", purchaseHandler.UpdatePurchaseOrderStatus)
		orders.POST("/:id/receive", purchaseHandler.ReceivePurchaseOrder)
		orders.POST("/:id/return", purchaseHandler.ProcessPurchaseReturn)
	}
}

func setupSalesRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	salesHandler := handlers.NewSalesHandler(db, cfg)

	customers := rg.Group("/customers")
	customers.Use(middleware.AuthMiddleware(cfg))
	customers.Use(middleware.RequireRoles(user.RoleCashier, user.RoleAdministrator))
	{
		customers.POST("", salesHandler.CreateCustomer)
		customers.GET("", salesHandler.GetCustomers)
		customers.GET("/:id", salesHandler.GetCustomer)
	}

	sales := rg.Group("/sales")
	sales.Use(middleware.AuthMiddleware(cfg))
	sales.Use(middleware.RequireRoles(user.RoleCashier, user.RoleAdministrator))
	{
		sales.POST("", salesHandler.CreateSalesTransaction)
		sales.GET("", salesHandler.GetSalesTransactions)
		sales.GET("/:id", salesHandler.GetSalesTransaction)
		sales.POST("/:id/return", salesHandler.ProcessSalesReturn)
		sales.GET("/:id/receipt", salesHandler.PrintReceipt)
		sales.GET("/:id/receipt/pdf", salesHandler.DownloadReceiptPDF)
	}

	reports := rg.Group("/reports")
	reports.Use(middleware.AuthMiddleware(cfg))
	reports.Use(middleware.RequireRoles(user.RoleAdministrator))
	{
		reports.POST("/sales", salesHandler.GetSalesReport)
	}
}

func setupShippingRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	shippingHandler := handlers.NewShippingHandler(db, cfg)

	shippings := rg.Group("/shippings")
	shippings.Use(middleware.AuthMiddleware(cfg))
	shippings.Use(middleware.RequireRoles(user.RoleCashier, user.RoleInventoryManager, user.RoleAdministrator))
	{
		shippings.POST("", shippingHandler.CreateShipping)
		shippings.GET("", shippingHandler.GetShippings)
		shippings.GET("/:id", shippingHandler.GetShipping)
		shippings.PUT("/:id/status", shippingHandler.UpdateShippingStatus)
		shippings.POST("/:id/tracking", shippingHandler.GenerateTrackingNumber)
		shippings.GET("/:id/label", shippingHandler.PrintShippingLabel)
		shippings.GET("/:id/label/pdf", shippingHandler.DownloadShippingLabelPDF)
		shippings.POST("/:id/assign", shippingHandler.AssignPackingResponsibility)
		shippings.PUT("/:id/packing", shippingHandler.UpdatePackingStatus)
	}

	sales := rg.Group("/sales")
	sales.Use(middleware.AuthMiddleware(cfg))
	sales.Use(middleware.RequireRoles(user.RoleCashier, user.RoleInventoryManager, user.RoleAdministrator))
	{
		sales.GET("/:id/shipping", shippingHandler.GetShippingByTransaction)
	}
}

func setupAccountingRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	accountingHandler := handlers.NewAccountingHandler(db, cfg)

	accounting := rg.Group("/accounting")
	accounting.Use(middleware.AuthMiddleware(cfg))
	accounting.Use(middleware.RequireRoles(user.RoleAdministrator))
	{
		receivables := accounting.Group("/receivables")
		{
			receivables.POST("", accountingHandler.CreateReceivable)
			receivables.GET("", accountingHandler.GetReceivables)
			receivables.GET("/overdue", accountingHandler.GetOverdueReceivables)
			receivables.PUT("/:id/pay", accountingHandler.MarkReceivablePaid)
		}

		payables := accounting.Group("/payables")
		{
			payables.POST("", accountingHandler.CreatePayable)
			payables.GET("", accountingHandler.GetPayables)
			payables.GET("/overdue", accountingHandler.GetOverduePayables)
			payables.PUT("/:id/pay", accountingHandler.MarkPayablePaid)
		}

		commissions := accounting.Group("/commissions")
		{
			commissions.POST("/calculate", accountingHandler.CalculateCommissions)
			commissions.GET("", accountingHandler.GetCommissions)
			commissions.GET("/unpaid", accountingHandler.GetUnpaidCommissions)
			commissions.PUT("/:id/pay", accountingHandler.MarkCommissionPaid)
		}
	}
}

func setupSettingsRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	settingsHandler := handlers.NewSettingsHandler(db, cfg)

	settings := rg.Group("/settings")
	settings.Use(middleware.AuthMiddleware(cfg))
	settings.Use(middleware.RequireRoles(user.RoleAdministrator))
	{
		settings.GET("", settingsHandler.GetSystemSettings)
		settings.PUT("", settingsHandler.UpdateSystemSettings)
		settings.PUT("/branding", settingsHandler.UpdateBranding)
	}
}

func setupSystemRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	systemHandler := handlers.NewSystemHandler(db, cfg)
	uploadHandler := handlers.NewUploadHandler(db, cfg)

	// Super admin only, RequireRoles with no roles grants nobody else
	system := rg.Group("/system")
	system.Use(middleware.AuthMiddleware(cfg))
	system.Use(middleware.RequireRoles())
	{
		system.POST("/backup", systemHandler.CreateBackup)
		system.POST("/restore", systemHandler.RestoreBackup)
		system.POST("/export", systemHandler.ExportData)
		system.POST("/import", systemHandler.ImportData)
		system.GET("/health", systemHandler.GetSystemHealth)
		system.GET("/activity-logs", systemHandler.GetActivityLogs)
		system.GET("/permissions/:role", systemHandler.GetModulePermissions)
		system.PUT("/permissions/:role", systemHandler.ConfigureModulePermissions)

		system.POST("/uploads", uploadHandler.StageFile)
		system.GET("/uploads", uploadHandler.GetStagedFiles)
		system.DELETE("/uploads/:id", uploadHandler.DeleteStagedFile)
	}
}
