package contract

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Apurer/petstore-contract-tests/internal/clients/http/petstore"
	"github.com/Apurer/petstore-contract-tests/internal/contracttest"
	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/scenarios"
	platformobservability "github.com/Apurer/petstore-contract-tests/internal/platform/observability"
	"github.com/Apurer/petstore-contract-tests/internal/platform/petstorefake"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func fakeConfig(t *testing.T) Config {
	t.Helper()
	fake := petstorefake.New()
	fake.Seed(petstore.Pet{ID: 1, Name: "doggie", PhotoURLs: []string{}, Tags: []petstore.Tag{}, Status: "available"})
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	return Config{
		BaseURL: srv.URL + fake.BasePath(),
		APIKey:  "special-key",
		Timeout: 5 * time.Second,
		DeleteWait: scenarios.DeleteWait{
			Mode:     scenarios.WaitPoll,
			Delay:    0,
			Timeout:  time.Second,
			Interval: 10 * time.Millisecond,
		},
	}
}

func quietInstruments() *platformobservability.Instruments {
	return &platformobservability.Instruments{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestRun_AgainstFake(t *testing.T) {
	var out bytes.Buffer

	results, err := Run(context.Background(), fakeConfig(t), Options{Out: &out, Instruments: quietInstruments()})

	require.NoError(t, err)
	require.Len(t, results.Tests, 7)
	require.Len(t, results.KnownFailures, 2)
	require.Contains(t, out.String(), "running all tests against")
	require.Contains(t, out.String(), "5 passed, 0 failed, 2 known failures, 0 skipped")
}

func TestRun_StrictFailsOnKnownFailures(t *testing.T) {
	results, err := Run(context.Background(), fakeConfig(t), Options{Out: io.Discard, Strict: true, Instruments: quietInstruments()})

	require.ErrorIs(t, err, ErrSuiteFailed)
	require.Empty(t, results.Failures)
}

func TestRun_SkipFilter(t *testing.T) {
	var filters contracttest.RegexFilters
	require.NoError(t, filters.MustNotMatch.Set("CREATE|GET/invalid ID|Schema validation"))

	results, err := Run(context.Background(), fakeConfig(t), Options{Out: io.Discard, Strict: true, Filters: filters, Instruments: quietInstruments()})

	require.NoError(t, err)
	require.Len(t, results.Tests, 5)
}

func TestRun_RejectsInvalidConfig(t *testing.T) {
	_, err := Run(context.Background(), Config{}, Options{Out: io.Discard, Instruments: quietInstruments()})

	require.Error(t, err)
}

func TestList(t *testing.T) {
	var filters contracttest.RegexFilters
	require.NoError(t, filters.MustMatch.Set("DELETE"))
	var out bytes.Buffer

	List(&out, filters)

	require.Equal(t, "DELETE/Create and delete a pet\nDELETE/Delete a non-existent pet\n", out.String())
}

func TestList_MarksExpectedFailures(t *testing.T) {
	var out bytes.Buffer

	List(&out, contracttest.RegexFilters{})

	require.Contains(t, out.String(), "CREATE/Negative Case - Create an invalid ID (expected failure:")
}

func TestDumpContract(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, DumpContract(&out, "pet", "yaml"))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))
	require.Equal(t, "object", doc["type"])
	require.ElementsMatch(t, []any{"id", "name", "status"}, doc["required"])
	require.Equal(t, false, doc["additionalProperties"])

	out.Reset()
	require.NoError(t, DumpContract(&out, "pet-negative-control", "json"))
	var negative struct {
		Properties map[string]any `json:"properties"`
		Required   []string       `json:"required"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &negative))
	require.NotContains(t, negative.Properties, "id")
	require.Equal(t, []string{"name", "status"}, negative.Required)

	require.Error(t, DumpContract(io.Discard, "pet", "xml"))
	require.Error(t, DumpContract(io.Discard, "order", "json"))
}
