package observability

import (
	"strings"

	"github.com/Achorval/Voouch-Api-sub001/internal/config"
)

const (
	defaultServiceName   = "voouch-admin"
	defaultSamplingRatio = 0.1
)

// Config is the part of the application config the logger, tracer and meter
// providers read.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel  string
	LogFormat string

	OtelEnabled       bool
	OtelEndpoint      string
	OtelProtocol      string
	OtelSamplingRatio float64
}

func LoadConfig(cfg config.Config) Config {
	name := strings.TrimSpace(cfg.AppName)
	if name == "" {
		name = defaultServiceName
	}

	ratio := cfg.OtelSamplingRatio
	if ratio < 0 || ratio > 1 {
		ratio = defaultSamplingRatio
	}

	return Config{
		ServiceName:       name,
		Environment:       strings.TrimSpace(cfg.Environment),
		Version:           strings.TrimSpace(cfg.AppVersion),
		LogLevel:          normalize(cfg.LogLevel),
		LogFormat:         normalize(cfg.LogFormat),
		OtelEnabled:       cfg.OtelEnabled,
		OtelEndpoint:      strings.TrimSpace(cfg.OTLPEndpoint),
		OtelProtocol:      normalize(cfg.OTLPProtocol),
		OtelSamplingRatio: ratio,
	}
}

// Debug turns on request stack traces and caller details. Non-production
// environments always get it.
func (c Config) Debug() bool {
	if normalize(c.LogLevel) == "debug" {
		return true
	}
	switch normalize(c.Environment) {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
