package api

import (
	"fmt"
	"os"
	"strings"

	"go.temporal.io/sdk/client"

	platformmongo "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/platform/mongo"
)

// Storage backends selectable with STORAGE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port               string
	StorageBackend     string
	PostgresDSN        string
	MongoURI           string
	MongoDatabase      string
	TemporalAddress    string
	TemporalNamespace  string
	TemporalDisabled   bool
	RequireKnownActors bool
	LogLevel           string
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:               envDefault("PORT", "8080"),
		StorageBackend:     strings.ToLower(strings.TrimSpace(os.Getenv("STORAGE_BACKEND"))),
		PostgresDSN:        strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		MongoURI:           strings.TrimSpace(os.Getenv("MONGO_URI")),
		MongoDatabase:      envDefault("MONGO_DATABASE", platformmongo.DefaultDatabase),
		TemporalAddress:    envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace:  envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:   isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		RequireKnownActors: isTruthy(os.Getenv("REQUIRE_KNOWN_ACTORS")),
		LogLevel:           envDefault("LOG_LEVEL", "info"),
	}
	if cfg.StorageBackend == "" {
		cfg.StorageBackend = BackendMemory
		if cfg.PostgresDSN != "" {
			cfg.StorageBackend = BackendPostgres
		}
	}
	switch cfg.StorageBackend {
	case BackendMemory:
	case BackendPostgres:
		if cfg.PostgresDSN == "" {
			return Config{}, fmt.Errorf("POSTGRES_DSN is required for the %s backend", BackendPostgres)
		}
	case BackendMongo:
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required for the %s backend", BackendMongo)
		}
	default:
		return Config{}, fmt.Errorf("STORAGE_BACKEND must be one of %s, %s or %s, got %q", BackendMemory, BackendPostgres, BackendMongo, cfg.StorageBackend)
	}
	return cfg, nil
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string {
	return ":" + c.Port
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
