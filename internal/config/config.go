package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds runtime configuration loaded from environment variables.
// DatabaseURL may be empty: the server then falls back to the in-memory
// fixture store instead of refusing to start.
type Config struct {
	DatabaseURL          string
	JWTSecret            string
	JWTIssuer            string
	TokenTTLHours        int
	AdminUsername        string
	AdminPasswordHash    string
	AdminDevPassword     string
	CorsOrigins          []string
	MetricsDiskPath      string
	MetricsSampleSeconds int
}

func Load() Config {
	return Config{
		DatabaseURL:          envOr("DATABASE_URL", ""),
		JWTSecret:            mustEnv("JWT_SECRET"),
		JWTIssuer:            envOr("JWT_ISSUER", "village-records"),
		TokenTTLHours:        envOrInt("TOKEN_TTL_HOURS", 24),
		AdminUsername:        envOr("ADMIN_USERNAME", "admin"),
		AdminPasswordHash:    envOr("ADMIN_PASSWORD_HASH", ""),
		AdminDevPassword:     envOr("ADMIN_DEV_PASSWORD", "admin123"),
		CorsOrigins:          parseCSV(envOr("CORS_ORIGINS", "")),
		MetricsDiskPath:      envOr("METRICS_DISK_PATH", "storage"),
		MetricsSampleSeconds: envOrInt("METRICS_SAMPLE_INTERVAL", 30),
	}
}

func mustEnv(key string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		panic("missing env var: " + key)
	}
	return value
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}
