package contract

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Apurer/petstore-contract-tests/internal/clients/http/petstore"
	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/scenarios"
)

// Config carries environment-driven settings for a suite run.
type Config struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	DeleteWait  scenarios.DeleteWait
	FixturesDir string
	LogFormat   string
	LogLevel    string
}

// LoadDotEnv loads variables from the given files into the process
// environment without overriding ones already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		BaseURL:     envDefault("PETSTORE_BASE_URL", petstore.DefaultBaseURL),
		APIKey:      strings.TrimSpace(os.Getenv("PETSTORE_API_KEY")),
		FixturesDir: strings.TrimSpace(os.Getenv("PETSTORE_FIXTURES_DIR")),
		LogFormat:   envDefault("LOG_FORMAT", "json"),
		LogLevel:    envDefault("LOG_LEVEL", "info"),
		DeleteWait:  scenarios.DefaultDeleteWait(),
	}
	var err error
	if cfg.Timeout, err = envDuration("PETSTORE_TIMEOUT", petstore.DefaultTimeout); err != nil {
		return Config{}, err
	}
	if cfg.DeleteWait.Mode, err = scenarios.ParseWaitMode(os.Getenv("PETSTORE_DELETE_WAIT")); err != nil {
		return Config{}, fmt.Errorf("PETSTORE_DELETE_WAIT: %w", err)
	}
	if cfg.DeleteWait.Delay, err = envDuration("PETSTORE_DELETE_DELAY", scenarios.DefaultDeleteDelay); err != nil {
		return Config{}, err
	}
	if cfg.DeleteWait.Timeout, err = envDuration("PETSTORE_DELETE_TIMEOUT", scenarios.DefaultDeleteTimeout); err != nil {
		return Config{}, err
	}
	if cfg.DeleteWait.Interval, err = envDuration("PETSTORE_POLL_INTERVAL", scenarios.DefaultPollInterval); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks settings that may also have been changed by flags.
func (c Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("PETSTORE_BASE_URL must not be empty")
	}
	if c.Timeout <= 0 {
		return errors.New("PETSTORE_TIMEOUT must be positive")
	}
	if _, err := scenarios.ParseWaitMode(string(c.DeleteWait.Mode)); err != nil {
		return err
	}
	if c.DeleteWait.Delay < 0 {
		return errors.New("PETSTORE_DELETE_DELAY must not be negative")
	}
	if c.DeleteWait.Timeout <= 0 || c.DeleteWait.Interval <= 0 {
		return errors.New("PETSTORE_DELETE_TIMEOUT and PETSTORE_POLL_INTERVAL must be positive")
	}
	if c.DeleteWait.Interval > c.DeleteWait.Timeout {
		return errors.New("PETSTORE_POLL_INTERVAL must not exceed PETSTORE_DELETE_TIMEOUT")
	}
	return nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration such as 500ms or 6s: %w", key, err)
	}
	return d, nil
}
