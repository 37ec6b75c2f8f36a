package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port          string
	DBPath        string
	JWTSecret     string
	AllowOrigin   string
	BackupDir     string
	BackupCron    string
	EmergencyCode string
	LogQueries    bool
}

// Load reads configuration from the .env file and environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file found, using environment variables")
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DBPath:        getEnv("DB_PATH", "data/kasir_amanah.db"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		AllowOrigin:   getEnv("ALLOW_ORIGIN", "http://localhost:5173"),
		BackupDir:     getEnv("BACKUP_DIR", "backups"),
		BackupCron:    getEnv("BACKUP_CRON", ""),
		EmergencyCode: getEnv("EMERGENCY_CODE", ""),
		LogQueries:    getEnv("LOG_QUERIES", "false") == "true",
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "kasir_amanah_dev_secret"
		log.Println("⚠️ WARNING: JWT_SECRET is not set, using the dev default. Set it in production!")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
