package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds process-level configuration resolved from the environment
type Config struct {
	DatabaseURL    string
	RedisURL       string
	RabbitMQURL    string
	ServerPort     string
	OpenAIKey      string
	AIProvider     string
	AIModel        string
	AIBaseURL      string
	SettingsPath   string
	FrontendURL    string
	EngineDebug    bool
	OTELEnabled    bool
	OTELEndpoint   string
	CheckRateBurst int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RabbitMQURL:    getEnv("RABBITMQ_URL", ""),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		OpenAIKey:      getEnv("OPENAI_API_KEY", ""),
		AIProvider:     getEnv("AI_PROVIDER", "openai"),
		AIModel:        getEnv("AI_MODEL", ""),
		AIBaseURL:      getEnv("AI_BASE_URL", ""),
		SettingsPath:   getEnv("SETTINGS_PATH", ""),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		EngineDebug:    getEnvBool("ENGINE_DEBUG_MODE", false),
		OTELEnabled:    getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		CheckRateBurst: getEnvInt("CHECK_RATE_BURST", 10),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.RabbitMQURL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL is required for notification publishing")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
