package contract

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/petstore-contract-tests/internal/clients/http/petstore"
	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/scenarios"
)

var configKeys = []string{
	"PETSTORE_BASE_URL", "PETSTORE_API_KEY", "PETSTORE_TIMEOUT", "PETSTORE_DELETE_WAIT",
	"PETSTORE_DELETE_DELAY", "PETSTORE_DELETE_TIMEOUT", "PETSTORE_POLL_INTERVAL",
	"PETSTORE_FIXTURES_DIR", "LOG_FORMAT", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()

	require.NoError(t, err)
	require.Equal(t, petstore.DefaultBaseURL, cfg.BaseURL)
	require.Empty(t, cfg.APIKey)
	require.Equal(t, 30*time.Second, cfg.Timeout)
	require.Equal(t, scenarios.DefaultDeleteWait(), cfg.DeleteWait)
	require.Equal(t, "json", cfg.LogFormat)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PETSTORE_BASE_URL", "http://localhost:8080/v2")
	t.Setenv("PETSTORE_API_KEY", "special-key")
	t.Setenv("PETSTORE_DELETE_WAIT", "fixed")
	t.Setenv("PETSTORE_DELETE_DELAY", "2s")
	t.Setenv("PETSTORE_POLL_INTERVAL", "100ms")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/v2", cfg.BaseURL)
	require.Equal(t, "special-key", cfg.APIKey)
	require.Equal(t, scenarios.WaitFixed, cfg.DeleteWait.Mode)
	require.Equal(t, 2*time.Second, cfg.DeleteWait.Delay)
	require.Equal(t, 100*time.Millisecond, cfg.DeleteWait.Interval)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"PETSTORE_TIMEOUT":        "soon",
		"PETSTORE_DELETE_WAIT":    "forever",
		"PETSTORE_DELETE_TIMEOUT": "-1s",
		"PETSTORE_POLL_INTERVAL":  "1m",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			_, err := LoadConfig()

			require.Error(t, err)
			require.Contains(t, err.Error(), "PETSTORE_")
		})
	}
}

func TestLoadDotEnv_DoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PETSTORE_BASE_URL", "http://from-env/v2")
	require.NoError(t, os.Unsetenv("PETSTORE_API_KEY"))
	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("PETSTORE_BASE_URL=http://from-file/v2\nPETSTORE_API_KEY=from-file\n"), 0o600))

	require.NoError(t, LoadDotEnv(file, filepath.Join(t.TempDir(), "missing.env")))

	require.Equal(t, "http://from-env/v2", os.Getenv("PETSTORE_BASE_URL"))
	require.Equal(t, "from-file", os.Getenv("PETSTORE_API_KEY"))
}
