package config

import (
	"errors"
	"os"
	"time"
)

// ServerConfig holds the HTTP surface settings.
type ServerConfig struct {
	Port          string
	CORSOrigins   []string
	UploadDir     string
	ChatRateLimit float64 // requests per second per client IP
}

func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:          envOrDefault("PORT", "5000"),
		CORSOrigins:   splitList(envOrDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		UploadDir:     envOrDefault("UPLOAD_DIR", "uploads"),
		ChatRateLimit: envOrDefaultFloat("CHAT_RATE_LIMIT", 2),
	}
}

// AuthConfig holds token signing and RBAC policy settings.
type AuthConfig struct {
	JWTKey     []byte
	TokenTTL   time.Duration
	PolicyPath string
}

func NewAuthConfig() (*AuthConfig, error) {
	key := os.Getenv("JWT_KEY")
	if key == "" {
		return nil, errors.New("JWT_KEY not set")
	}
	return &AuthConfig{
		JWTKey:     []byte(key),
		TokenTTL:   envOrDefaultDuration("JWT_TTL", 24*time.Hour),
		PolicyPath: envOrDefault("RBAC_POLICY_PATH", "rbac_policy.csv"),
	}, nil
}

// ReminderConfig controls the overdue outward mail scheduler.
type ReminderConfig struct {
	Interval time.Duration
}

func NewReminderConfig() *ReminderConfig {
	return &ReminderConfig{Interval: envOrDefaultDuration("REMINDER_INTERVAL", time.Hour)}
}
