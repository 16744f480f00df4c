package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "HISTOGRAM_BASE_URL", "HISTOGRAM_FETCH_TIMEOUT", "HISTOGRAM_LOCALE",
		"SELECT_COLUMN_GRID", "SHARE_GUIDE_IN_NEW_WINDOW", "SESSION_IDLE_TTL", "GATE_STORE",
		"DB_PATH", "DB_DRIVER", "REDIS_ADDR", "GRPC_PORT", "GRPC_REFLECTION_ENABLED",
		"GRPC_LOGGING_ENABLED",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadFromEnv()

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "https://michael-maltsev.github.io/technion-histograms", cfg.HistogramBaseURL)
	assert.Equal(t, 15*time.Second, cfg.HistogramFetchTimeout)
	assert.Equal(t, "en", cfg.HistogramLocale)
	assert.Equal(t, "lg", cfg.SelectColumnGrid)
	assert.False(t, cfg.ShareGuideInNewWindow)
	assert.Equal(t, 2*time.Hour, cfg.SessionIdleTTL)
	assert.Equal(t, GateStoreSQLite, cfg.GateStore)
	assert.Equal(t, "./data/histograms.db", cfg.DBPath)
	assert.Equal(t, "sqlite3", cfg.DBDriver)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 50051, cfg.GRPCPort)
	assert.False(t, cfg.GRPCReflectionEnabled)
	assert.True(t, cfg.GRPCLoggingEnabled)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("HISTOGRAM_BASE_URL", "http://localhost:8080/hist/")
	t.Setenv("HISTOGRAM_FETCH_TIMEOUT", "3s")
	t.Setenv("SHARE_GUIDE_IN_NEW_WINDOW", "true")
	t.Setenv("GATE_STORE", "Redis")
	t.Setenv("GRPC_PORT", "9000")
	t.Setenv("GRPC_LOGGING_ENABLED", "false")

	cfg := LoadFromEnv()

	assert.Equal(t, "http://localhost:8080/hist", cfg.HistogramBaseURL)
	assert.Equal(t, 3*time.Second, cfg.HistogramFetchTimeout)
	assert.True(t, cfg.ShareGuideInNewWindow)
	assert.Equal(t, GateStoreRedis, cfg.GateStore)
	assert.Equal(t, 9000, cfg.GRPCPort)
	assert.False(t, cfg.GRPCLoggingEnabled)
}

func TestLoadFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("GRPC_PORT", "not-a-port")
	t.Setenv("HISTOGRAM_FETCH_TIMEOUT", "-1s")
	t.Setenv("SESSION_IDLE_TTL", "soon")
	t.Setenv("GRPC_REFLECTION_ENABLED", "maybe")

	cfg := LoadFromEnv()

	assert.Equal(t, 50051, cfg.GRPCPort)
	assert.Equal(t, 15*time.Second, cfg.HistogramFetchTimeout)
	assert.Equal(t, 2*time.Hour, cfg.SessionIdleTTL)
	assert.False(t, cfg.GRPCReflectionEnabled)
}

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		t.Run(env, func(t *testing.T) {
			logger, err := NewLogger(&Config{AppEnv: env})
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}
