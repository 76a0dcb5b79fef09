package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	LogLevel string
	Env      string

	DatabaseURL string
	RedisURL    string

	JWTSecret string
	JWTTTL    time.Duration

	FixturesPath     string
	AuthLatency      time.Duration
	SnapshotInterval time.Duration

	StorageType      string
	StorageLocalRoot string
	StoragePublicURL string
	S3Bucket         string
	S3Prefix         string
	S3Region         string
	S3Endpoint       string

	GeminiAPIKey      string
	GeminiModel       string
	ChatbotTimeout    time.Duration
	ChatbotMaxRetries int
}

// LoadConfig reads the environment. Empty DATABASE_URL or REDIS_URL turn
// persistence and cross-instance fan-out off.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:             GetEnv("PORT", "8081"),
		Env:              GetEnv("ENV", "development"),
		LogLevel:         GetEnv("LOG_LEVEL", "info"),
		DatabaseURL:      GetEnv("DATABASE_URL", ""),
		RedisURL:         GetEnv("REDIS_URL", ""),
		JWTSecret:        GetEnv("JWT_SECRET", "dev-secret-change-me"),
		FixturesPath:     GetEnv("FIXTURES_PATH", ""),
		StorageType:      GetEnv("STORAGE_TYPE", "memory"),
		StorageLocalRoot: GetEnv("STORAGE_LOCAL_ROOT", "./uploads"),
		StoragePublicURL: GetEnv("STORAGE_PUBLIC_URL", ""),
		S3Bucket:         GetEnv("S3_BUCKET", ""),
		S3Prefix:         GetEnv("S3_PREFIX", "resources"),
		S3Region:         GetEnv("S3_REGION", ""),
		S3Endpoint:       GetEnv("S3_ENDPOINT", ""),
		GeminiAPIKey:     GetEnv("GEMINI_API_KEY", ""),
		GeminiModel:      GetEnv("GEMINI_MODEL", "gemini-1.5-flash"),
	}

	// Only AUTH_LATENCY may be zero; the rest feed tickers and timeouts.
	durations := []struct {
		key    string
		def    string
		dest   *time.Duration
		zeroOK bool
	}{
		{"JWT_TTL", "24h", &cfg.JWTTTL, false},
		{"AUTH_LATENCY", "0s", &cfg.AuthLatency, true},
		{"SNAPSHOT_INTERVAL", "1m", &cfg.SnapshotInterval, false},
		{"CHATBOT_TIMEOUT", "20s", &cfg.ChatbotTimeout, false},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(GetEnv(d.key, d.def))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", d.key, err)
		}
		if v < 0 || (v == 0 && !d.zeroOK) {
			return nil, fmt.Errorf("%s must be positive, got %s", d.key, v)
		}
		*d.dest = v
	}

	retries, err := strconv.Atoi(GetEnv("CHATBOT_MAX_RETRIES", "2"))
	if err != nil {
		return nil, fmt.Errorf("parse CHATBOT_MAX_RETRIES: %w", err)
	}
	if retries < 0 {
		return nil, fmt.Errorf("CHATBOT_MAX_RETRIES must not be negative, got %d", retries)
	}
	cfg.ChatbotMaxRetries = retries

	if cfg.Env == "production" && cfg.JWTSecret == "dev-secret-change-me" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}
	return cfg, nil
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
