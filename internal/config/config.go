package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	JWT      JWTConfig
	OTP      OTPConfig
	SMTP     SMTPConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds session token configuration. The secret is
// process-wide; rotating it invalidates all outstanding tokens.
type JWTConfig struct {
	Secret            string
	StaffTokenHours   int
	PatientTokenHours int
}

// OTPConfig holds challenge configuration
type OTPConfig struct {
	TTL         time.Duration
	MaxAttempts int
	CodeLength  int
}

// SMTPConfig holds outbound mail configuration
type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Database: loadDatabaseConfig(appMode),
		JWT:      loadJWTConfig(appMode),
		OTP:      loadOTPConfig(),
		SMTP:     loadSMTPConfig(),
	}

	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "carelink_hms"),
	}
}

// loadJWTConfig loads session token config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	staffHours, _ := strconv.Atoi(getEnv("STAFF_TOKEN_HOURS", "8"))
	patientHours, _ := strconv.Atoi(getEnv("PATIENT_TOKEN_HOURS", "24"))

	return JWTConfig{
		Secret:            getEnv(prefix+"JWT_SECRET", "default_secret"),
		StaffTokenHours:   staffHours,
		PatientTokenHours: patientHours,
	}
}

// loadOTPConfig loads challenge config
func loadOTPConfig() OTPConfig {
	ttlMinutes, _ := strconv.Atoi(getEnv("OTP_TTL_MINUTES", "5"))
	maxAttempts, _ := strconv.Atoi(getEnv("OTP_MAX_ATTEMPTS", "5"))
	codeLength, _ := strconv.Atoi(getEnv("OTP_CODE_LENGTH", "6"))

	return OTPConfig{
		TTL:         time.Duration(ttlMinutes) * time.Minute,
		MaxAttempts: maxAttempts,
		CodeLength:  codeLength,
	}
}

// loadSMTPConfig loads outbound mail config
func loadSMTPConfig() SMTPConfig {
	return SMTPConfig{
		Host: getEnv("SMTP_HOST", ""),
		Port: getEnv("SMTP_PORT", "587"),
		User: getEnv("SMTP_USER", ""),
		Pass: getEnv("SMTP_PASS", ""),
		From: getEnv("SMTP_FROM", "no-reply@carelink.health"),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://portal.carelink.health"
	}
	return origins
}
