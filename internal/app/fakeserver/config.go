package fakeserver

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config carries environment-driven settings for the fake petstore process.
type Config struct {
	Port         string
	BasePath     string
	DeleteLag    time.Duration
	FixturesDir  string
	SeedDisabled bool
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:         envDefault("PORT", "8080"),
		BasePath:     envDefault("PETSTORE_FAKE_BASE_PATH", "/v2"),
		FixturesDir:  strings.TrimSpace(os.Getenv("PETSTORE_FIXTURES_DIR")),
		SeedDisabled: isTruthy(os.Getenv("PETSTORE_FAKE_SEED_DISABLED")),
	}
	if raw := strings.TrimSpace(os.Getenv("PETSTORE_FAKE_DELETE_LAG")); raw != "" {
		lag, err := time.ParseDuration(raw)
		if err != nil || lag < 0 {
			return Config{}, fmt.Errorf("PETSTORE_FAKE_DELETE_LAG must be a non-negative duration")
		}
		cfg.DeleteLag = lag
	}
	return cfg, nil
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
