package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	NodeURL            string
	DatabaseURL        string
	RedisURL           string
	NodeRetryMax       int
	NodeRetryBaseDelay time.Duration
	CacheTTL           time.Duration
	Gateways           []string
	HotWallets         []string
	ReportInterval     time.Duration
	ExportDir          string
	SheetsID           string
	SheetsCredentials  string
	APIKey             string
	HTTPPort           string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		NodeURL:            envOrDefault("NODE_URL", ""),
		DatabaseURL:        envOrDefault("DATABASE_URL", ""),
		RedisURL:           envOrDefault("REDIS_URL", ""),
		NodeRetryMax:       envOrDefaultInt("NODE_RETRY_MAX", 5),
		NodeRetryBaseDelay: envOrDefaultDuration("NODE_RETRY_BASE_DELAY", 2*time.Second),
		CacheTTL:           envOrDefaultDuration("CACHE_TTL", time.Hour),
		Gateways:           envList("GATEWAYS"),
		HotWallets:         envList("HOTWALLETS"),
		ReportInterval:     envOrDefaultDuration("REPORT_INTERVAL", time.Hour),
		ExportDir:          envOrDefault("EXPORT_DIR", ""),
		SheetsID:           envOrDefault("SHEETS_SPREADSHEET_ID", ""),
		SheetsCredentials:  envOrDefault("SHEETS_CREDENTIALS_JSON", ""),
		APIKey:             envOrDefault("API_KEY", ""),
		HTTPPort:           envOrDefault("HTTP_PORT", "8080"),
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}

// envList parses a comma-separated env var, trimming whitespace and dropping
// empty elements.
func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
