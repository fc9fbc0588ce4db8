// ABOUTME: Runtime configuration loaded from .env and the environment
// ABOUTME: Database location defaults to the XDG data directory
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

const (
	// AppName names the XDG data subdirectory.
	AppName = "buildcrm"

	// DatabaseFileName is the default SQLite file name.
	DatabaseFileName = "crm.db"

	DefaultPort = 8000
)

// Config holds everything the commands need to start.
type Config struct {
	DBDriver         string
	DatabaseURL      string
	Port             int
	LogMode          string
	StrictLeadStatus bool
	CORSOrigins      []string
	SeedOnEmpty      bool

	// Tracing is off unless OTEL_ENABLED is set. Without an OTLP endpoint,
	// spans are printed to stderr.
	TracingEnabled   bool
	OTLPEndpoint     string
	OTLPInsecure     bool
	TraceSampleRatio float64
}

// Load reads .env (if present) then the environment.
func Load() *Config {
	// Missing .env is normal outside development
	_ = godotenv.Load()

	return &Config{
		DBDriver:         GetEnv("BUILDCRM_DB_DRIVER", "sqlite3"),
		DatabaseURL:      GetEnv("BUILDCRM_DATABASE_URL", DefaultDatabasePath()),
		Port:             getInt("PORT", DefaultPort),
		LogMode:          GetEnv("BUILDCRM_LOG_MODE", "dev"),
		StrictLeadStatus: getBool("BUILDCRM_STRICT_LEAD_STATUS", false),
		CORSOrigins:      splitList(GetEnv("BUILDCRM_CORS_ORIGINS", "*")),
		SeedOnEmpty:      getBool("BUILDCRM_SEED", false),
		TracingEnabled:   getBool("OTEL_ENABLED", false),
		OTLPEndpoint:     GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure:     getBool("OTEL_EXPORTER_OTLP_INSECURE", false),
		TraceSampleRatio: getRatio("OTEL_SAMPLER_RATIO", 1),
	}
}

// DefaultDatabasePath is $XDG_DATA_HOME/buildcrm/crm.db.
func DefaultDatabasePath() string {
	return filepath.Join(xdg.DataHome, AppName, DatabaseFileName)
}

// GetEnv gets an environment variable or returns a default value if not present
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw := GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	raw := GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return b
}

// getRatio parses a float clamped to [0, 1].
func getRatio(key string, fallback float64) float64 {
	raw := GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
