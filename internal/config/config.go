package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the environment-derived server settings. The JWT settings
// (JWT_SECRET, JWT_ISSUER, JWT_AUDIENCE) are read by the auth package
// directly; loading the .env here makes them visible to it too.
type Config struct {
	Port          string
	DatabasePath  string
	UploadDir     string
	AdminEmail    string
	AdminPassword string
}

// Load reads an optional .env file and resolves the configuration with
// development defaults. Missing .env is not an error.
func Load() *Config {
	_ = godotenv.Load(".env")

	return &Config{
		Port:          getEnv("PORT", "8008"),
		DatabasePath:  getEnv("DATABASE_PATH", "worksite-tasks.db"),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
