package config

import (
	"os"
	"sync"
)

type ChatConfig struct {
	Provider    string // "openrouter", "gemini" or "endpoint"
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
}

var (
	chatConfig *ChatConfig
	chatOnce   sync.Once
)

func LoadChatConfig() *ChatConfig {
	chatOnce.Do(func() {
		chatConfig = &ChatConfig{
			Provider:    getEnv("CHAT_PROVIDER", "openrouter"),
			BaseURL:     getEnv("CHAT_BASE_URL", "https://openrouter.ai/api/v1"),
			APIKey:      os.Getenv("OPENROUTER_API_KEY"),
			Model:       getEnv("CHAT_MODEL", "openai/gpt-4o-mini"),
			MaxTokens:   getEnvAsInt("CHAT_MAX_TOKENS", 300),
			Temperature: getEnvAsFloat("CHAT_TEMPERATURE", 0.7),
		}
	})
	return chatConfig
}
