package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Gate store backends.
const (
	GateStoreSQLite = "sqlite"
	GateStoreRedis  = "redis"
	GateStoreMemory = "memory"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv string

	HistogramBaseURL      string
	HistogramFetchTimeout time.Duration
	HistogramLocale       string
	SelectColumnGrid      string
	ShareGuideInNewWindow bool
	SessionIdleTTL        time.Duration

	GateStore string
	DBPath    string
	DBDriver  string
	RedisAddr string

	GRPCPort              int
	GRPCReflectionEnabled bool
	GRPCLoggingEnabled    bool
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() *Config {
	portStr := getEnv("GRPC_PORT", "50051")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = 50051
	}

	return &Config{
		AppEnv:                getEnv("APP_ENV", "development"),
		HistogramBaseURL:      strings.TrimRight(getEnv("HISTOGRAM_BASE_URL", "https://michael-maltsev.github.io/technion-histograms"), "/"),
		HistogramFetchTimeout: getDuration("HISTOGRAM_FETCH_TIMEOUT", 15*time.Second),
		HistogramLocale:       getEnv("HISTOGRAM_LOCALE", "en"),
		SelectColumnGrid:      getEnv("SELECT_COLUMN_GRID", "lg"),
		ShareGuideInNewWindow: getBool("SHARE_GUIDE_IN_NEW_WINDOW", false),
		SessionIdleTTL:        getDuration("SESSION_IDLE_TTL", 2*time.Hour),
		GateStore:             strings.ToLower(getEnv("GATE_STORE", GateStoreSQLite)),
		DBPath:                getEnv("DB_PATH", "./data/histograms.db"),
		DBDriver:              getEnv("DB_DRIVER", "sqlite3"),
		RedisAddr:             getEnv("REDIS_ADDR", "localhost:6379"),
		GRPCPort:              port,
		GRPCReflectionEnabled: getBool("GRPC_REFLECTION_ENABLED", false),
		GRPCLoggingEnabled:    getBool("GRPC_LOGGING_ENABLED", true),
	}
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
