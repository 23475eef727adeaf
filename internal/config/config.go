package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// Gemini oracle configuration
	GeminiAPIKey       string
	GeminiModel        string
	GeminiSummaryModel string
	LLMTimeout         time.Duration
	LLMMaxAttempts     int

	// Classifier artifact location
	ModelArtifactsDir string

	// Per-IP rate limiting; every turn triggers paid oracle calls
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.5-flash-lite"),
		GeminiSummaryModel: getEnv("GEMINI_SUMMARY_MODEL", "gemini-2.5-flash"),
		LLMTimeout:         getEnvAsDuration("LLM_TIMEOUT", 20*time.Second),
		LLMMaxAttempts:     getEnvAsInt("LLM_MAX_ATTEMPTS", 2),
		ModelArtifactsDir:  getEnv("MODEL_ARTIFACTS_DIR", "saved_model"),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 2),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 5),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
