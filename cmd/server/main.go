package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"carelink-backend/internal/adapters/http/middleware"
	"carelink-backend/internal/adapters/http/routes"
	"carelink-backend/internal/adapters/persistence/models"
	"carelink-backend/internal/config"
	"carelink-backend/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "carelink-backend/docs" // Swagger docs
)

// @title CareLink Identity API
// @version 1.0
// @description Patient/staff identity backend: registration, authentication, OTP challenges and session tokens.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@carelink.health

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host api.carelink.health
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed default admin staff in development
	if cfg.IsDev() {
		if err := config.NewSeeder(db).Run(); err != nil {
			log.Printf("⚠️ Warning: seeding failed: %v", err)
		}
	}

	// OTP challenge store, shared by routes and the eviction sweep
	otpService := services.NewOTPService(cfg.OTP.TTL, cfg.OTP.MaxAttempts, cfg.OTP.CodeLength)

	// Start cron service for the OTP eviction sweep
	cronService := services.NewCronService(otpService)
	cronService.Start()
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "CareLink Identity API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, otpService, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
