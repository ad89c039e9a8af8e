package config

import (
	"os"
	"time"
)

// GeminiConfig configures the generative model used by the chatbot.
// An empty APIKey is allowed; the chatbot then answers open questions with the
// missing-credentials fallback instead of failing at start up.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

func NewGeminiConfig() *GeminiConfig {
	return &GeminiConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		Model:   envOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		BaseURL: envOrDefault("GEMINI_URL", "https://generativelanguage.googleapis.com/v1beta"),
		Timeout: envOrDefaultDuration("GEMINI_TIMEOUT", 10*time.Second),
	}
}

// ChatConfig holds chatbot settings outside the model client.
type ChatConfig struct {
	IntentsPath string // optional YAML replacement for the built-in intent table
}

func NewChatConfig() *ChatConfig {
	return &ChatConfig{IntentsPath: os.Getenv("CHAT_INTENTS_PATH")}
}
