package config

import (
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"BUILDCRM_DB_DRIVER", "BUILDCRM_DATABASE_URL", "PORT", "BUILDCRM_LOG_MODE",
		"BUILDCRM_STRICT_LEAD_STATUS", "BUILDCRM_CORS_ORIGINS", "BUILDCRM_SEED",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "sqlite3", cfg.DBDriver)
	assert.Equal(t, filepath.Join(xdg.DataHome, "buildcrm", "crm.db"), cfg.DatabaseURL)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "dev", cfg.LogMode)
	assert.False(t, cfg.StrictLeadStatus)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.SeedOnEmpty)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("BUILDCRM_DB_DRIVER", "pgx")
	t.Setenv("BUILDCRM_DATABASE_URL", "postgres://localhost/crm")
	t.Setenv("PORT", "9090")
	t.Setenv("BUILDCRM_LOG_MODE", "prod")
	t.Setenv("BUILDCRM_STRICT_LEAD_STATUS", "true")
	t.Setenv("BUILDCRM_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("BUILDCRM_SEED", "1")

	cfg := Load()
	assert.Equal(t, "pgx", cfg.DBDriver)
	assert.Equal(t, "postgres://localhost/crm", cfg.DatabaseURL)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "prod", cfg.LogMode)
	assert.True(t, cfg.StrictLeadStatus)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.SeedOnEmpty)
}

func TestBadValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("BUILDCRM_STRICT_LEAD_STATUS", "maybe")

	cfg := Load()
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.False(t, cfg.StrictLeadStatus)
}

func TestTracingSettings(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4318")
	t.Setenv("OTEL_SAMPLER_RATIO", "7")

	cfg := Load()
	assert.True(t, cfg.TracingEnabled)
	assert.Equal(t, "collector:4318", cfg.OTLPEndpoint)
	assert.Equal(t, 1.0, cfg.TraceSampleRatio)

	t.Setenv("OTEL_SAMPLER_RATIO", "0.25")
	assert.Equal(t, 0.25, Load().TraceSampleRatio)
}
