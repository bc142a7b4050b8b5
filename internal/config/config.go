package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	JWTSecret        string
	AdminAccessCode  string
	ServerPort       string
	HeartbeatWindow  string
	HeartbeatEvery   string
	MessagePollEvery string
}

func Load() *Config {
	// Local development convenience; ignored when no .env exists.
	_ = godotenv.Load()

	return &Config{
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", "postgres"),
		DBPassword:       getEnv("DB_PASSWORD", "postgres"),
		DBName:           getEnv("DB_NAME", "huddle"),
		JWTSecret:        getEnv("JWT_SECRET", "super-secret-key-change-me"),
		AdminAccessCode:  getEnv("ADMIN_ACCESS_CODE", "admin1234"),
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		HeartbeatWindow:  getEnv("HEARTBEAT_WINDOW", "60"),
		HeartbeatEvery:   getEnv("HEARTBEAT_INTERVAL", "5"),
		MessagePollEvery: getEnv("MESSAGE_POLL_INTERVAL", "3"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
