package main

import (
	"log"
	"time"

	"kasir-amanah/internal/auth"
	"kasir-amanah/internal/config"
	"kasir-amanah/internal/handlers"
	"kasir-amanah/internal/middleware"
	"kasir-amanah/internal/services"
	"kasir-amanah/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	// The composition root owns the store lifecycle: open it once here,
	// inject it everywhere. Without the store nothing can run.
	dataStore := store.New(cfg.DBPath)
	if cfg.LogQueries {
		dataStore.WithQueryLogging()
	}
	if err := dataStore.Open(); err != nil {
		log.Fatal("❌ Could not open the data store: ", err)
	}
	defer dataStore.Close()
	log.Println("✅ Data store ready:", cfg.DBPath)

	// Domain services.
	logService := services.NewLogService(dataStore)
	productService := services.NewProductService(dataStore)
	staffService := services.NewStaffService(dataStore)
	transactionService := services.NewTransactionService(dataStore)
	settingsService := services.NewSettingsService(dataStore, logService)
	reportService := services.NewReportService(dataStore, transactionService)

	// Seed the emergency recovery code hash on first run.
	if err := staffService.SeedEmergencyCode(cfg.EmergencyCode); err != nil {
		log.Println("Warning: could not seed emergency code:", err)
	}

	// Scheduled on-disk backups (disabled when BACKUP_CRON is empty).
	scheduler := services.NewBackupScheduler(settingsService, cfg.BackupDir, cfg.BackupCron)
	if err := scheduler.Start(); err != nil {
		log.Fatal("❌ Backup scheduler: ", err)
	}
	defer scheduler.Stop()

	tokens := auth.NewTokenManager(cfg.JWTSecret)

	productHandler := handlers.NewProductHandler(productService)
	staffHandler := handlers.NewStaffHandler(staffService, logService, tokens)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	settingsHandler := handlers.NewSettingsHandler(settingsService, scheduler, dataStore)
	reportHandler := handlers.NewReportHandler(reportService, productService)
	logHandler := handlers.NewLogHandler(logService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })

	// --- PUBLIC ROUTES ---
	r.POST("/login/pin", staffHandler.LoginPIN)
	r.POST("/login/admin", staffHandler.LoginAdmin)
	r.POST("/login/emergency", staffHandler.LoginEmergency)
	r.POST("/login/guest", staffHandler.LoginGuest)
	// First-run bootstrap: closes itself once an admin exists.
	r.POST("/register", staffHandler.Register)

	// --- PROTECTED ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(tokens))
	{
		// CASHIER, ADMIN & GUEST (guests are read-only inside handlers)
		api.GET("/products", productHandler.GetProducts)
		api.GET("/products/:id", productHandler.GetProduct)
		api.POST("/checkout", transactionHandler.Checkout)
		api.GET("/transactions", transactionHandler.GetTransactions)

		// ADMIN ONLY
		admin := api.Group("/")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/products", productHandler.AddProduct)
			admin.PUT("/products/:id", productHandler.UpdateProduct)
			admin.DELETE("/products/:id", productHandler.DeleteProduct)
			admin.POST("/products/import", productHandler.ImportProducts)

			admin.GET("/staff", staffHandler.GetStaff)
			admin.POST("/staff", staffHandler.AddStaff)
			admin.DELETE("/staff/:id", staffHandler.DeleteStaff)

			admin.GET("/settings/:key", settingsHandler.GetSetting)
			admin.PUT("/settings/:key", settingsHandler.SetSetting)
			admin.GET("/backup", settingsHandler.DownloadBackup)
			admin.POST("/backup/local", settingsHandler.WriteBackup)
			admin.POST("/restore", settingsHandler.Restore)
			admin.POST("/reset", settingsHandler.FactoryReset)
			admin.GET("/status", settingsHandler.GetStatus)

			admin.GET("/logs", logHandler.GetLogs)

			admin.GET("/reports", reportHandler.GetSummary)
			admin.GET("/reports/best-sellers", reportHandler.GetBestSellers)
			admin.GET("/reports/valuation", reportHandler.GetStockValuation)
			admin.GET("/reports/history", reportHandler.GetSnapshots)
			admin.POST("/reports/snapshot", reportHandler.SaveSnapshot)
			admin.GET("/reports/export", reportHandler.ExportXLSX)
		}
	}

	log.Println("🚀 Server starting on :" + cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed to start: ", err)
	}
}
