package routes

import (
	"carelink-backend/internal/adapters/http/handlers"
	"carelink-backend/internal/adapters/http/middleware"
	"carelink-backend/internal/adapters/persistence/repositories"
	"carelink-backend/internal/config"
	"carelink-backend/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, otpService *services.OTPService, cfg *config.Config) {
	// Initialize repositories
	staffRepo := repositories.NewStaffRepository(db)
	patientRepo := repositories.NewPatientRepository(db)

	// Initialize services
	notifyService := services.NewNotificationService(cfg)
	authService := services.NewAuthService(staffRepo, patientRepo, otpService, notifyService, cfg)
	patientService := services.NewPatientService(patientRepo)
	staffService := services.NewStaffService(staffRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	patientHandler := handlers.NewPatientHandler(patientService)
	staffHandler := handlers.NewStaffHandler(staffService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public)
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/login", middleware.AuthRateLimiter(), authHandler.StaffLogin)
	authRoutes.Post("/patient-register", middleware.AuthRateLimiter(), authHandler.PatientRegister)
	authRoutes.Post("/patient-login", middleware.AuthRateLimiter(), authHandler.PatientLogin)
	authRoutes.Post("/verify", middleware.AuthMiddleware(cfg), authHandler.Verify)
	authRoutes.Post("/otp/request", middleware.StrictRateLimiter(), authHandler.RequestOTP)
	authRoutes.Post("/otp/verify", authHandler.VerifyOTP)

	// Patient self-service routes
	patientRoutes := apiV1.Group("/patient")
	patientRoutes.Use(middleware.AuthMiddleware(cfg), middleware.PatientOnly())
	patientRoutes.Get("/profile", patientHandler.GetProfile)
	patientRoutes.Put("/profile", patientHandler.UpdateProfile)
	patientRoutes.Put("/password", patientHandler.UpdatePassword)

	// Staff self-service routes
	staffRoutes := apiV1.Group("/staff")
	staffRoutes.Use(middleware.AuthMiddleware(cfg), middleware.StaffOnly())
	staffRoutes.Get("/profile", staffHandler.GetProfile)
	staffRoutes.Put("/profile", staffHandler.UpdateProfile)
	staffRoutes.Put("/password", staffHandler.UpdatePassword)
}
