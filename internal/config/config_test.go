package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadReadsObservabilityAndDatabaseLogging(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("OTEL_ENABLED", "yes")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4318")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "http")
	t.Setenv("OTEL_SAMPLING_RATIO", "0.25")
	t.Setenv("DATABASE_LOG_LEVEL", "info")
	t.Setenv("DATABASE_SLOW_QUERY_MS", "50")

	cfg := Load()

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.OtelEnabled)
	assert.Equal(t, "collector:4318", cfg.OTLPEndpoint)
	assert.Equal(t, "http", cfg.OTLPProtocol)
	assert.Equal(t, 0.25, cfg.OtelSamplingRatio)
	assert.Equal(t, "info", cfg.DBLogLevel)
	assert.Equal(t, 50, cfg.DBSlowQueryMs)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL", "")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "")
	t.Setenv("OTEL_ENABLED", "")
	t.Setenv("DATABASE_LOG_LEVEL", "")
	t.Setenv("DATABASE_SLOW_QUERY_MS", "not-a-number")

	cfg := Load()

	assert.Equal(t, "grpc", cfg.OTLPProtocol)
	assert.Equal(t, "warn", cfg.DBLogLevel)
	assert.Equal(t, 200, cfg.DBSlowQueryMs)
	assert.False(t, cfg.OtelEnabled)
}
