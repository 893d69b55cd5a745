package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	JWTSecret  string

	AppBaseURL string

	OpenAIAPIKey    string
	GeminiAPIKey    string
	SerperAPIKey    string
	FirecrawlAPIKey string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string

	LLMConfigPath string
}

func LoadConfig() Config {
	// No .env file means system environment only
	_ = godotenv.Load()

	return Config{
		DBUser:     getEnv("DB_USER", ""),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "weaver"),
		JWTSecret:  getEnv("JWT_SECRET", ""),

		AppBaseURL: getEnv("APP_BASE_URL", "http://localhost:8000"),

		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		SerperAPIKey:    getEnv("SERPER_API_KEY", ""),
		FirecrawlAPIKey: getEnv("FIRECRAWL_API_KEY", ""),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:    getEnv("MINIO_BUCKET", "weaver-pages"),

		LLMConfigPath: getEnv("LLM_CONFIG_PATH", "weaver/config/llm.yaml"),
	}
}

// Validate checks the configuration the pipeline cannot run without.
// Search and extraction keys are optional: when absent the matching
// fallback provider takes over.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.OpenAIAPIKey == "" && c.GeminiAPIKey == "" {
		return fmt.Errorf("at least one of OPENAI_API_KEY or GEMINI_API_KEY is required")
	}
	if c.AppBaseURL == "" {
		return fmt.Errorf("APP_BASE_URL is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}
