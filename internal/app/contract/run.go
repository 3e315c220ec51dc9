package contract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Apurer/petstore-contract-tests/internal/clients/http/petstore"
	"github.com/Apurer/petstore-contract-tests/internal/contracttest"
	petsobs "github.com/Apurer/petstore-contract-tests/internal/domains/pets/adapters/observability"
	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/contracts"
	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/fixtures"
	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/scenarios"
	platformobservability "github.com/Apurer/petstore-contract-tests/internal/platform/observability"
)

const serviceName = "petstore-contract-tests"

// ErrSuiteFailed is returned when at least one scenario failed.
var ErrSuiteFailed = errors.New("contract suite failed")

// Options tune a single run on top of Config.
type Options struct {
	Filters contracttest.RegexFilters
	// Strict also fails the run on known failures.
	Strict bool
	// Debug prints captured scenario output for passing tests too.
	Debug bool
	Out   io.Writer
	// Instruments are initialised from Config when nil.
	Instruments *platformobservability.Instruments
}

// Run executes the scenario suite against cfg.BaseURL and prints one line
// per scenario plus a summary.
func Run(ctx context.Context, cfg Config, opts Options) (contracttest.Results, error) {
	if err := cfg.Validate(); err != nil {
		return contracttest.Results{}, err
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	instruments := opts.Instruments
	if instruments == nil {
		initialized, shutdown, err := platformobservability.Init(ctx, serviceName,
			platformobservability.WithLogOutput(os.Stderr),
			platformobservability.WithLogFormat(cfg.LogFormat),
			platformobservability.WithLogLevel(cfg.LogLevel),
		)
		if err != nil {
			return contracttest.Results{}, fmt.Errorf("failed to initialize observability: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				initialized.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
			}
		}()
		instruments = initialized
	}
	logger := instruments.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	set, err := fixtures.LoadDir(cfg.FixturesDir)
	if err != nil {
		return contracttest.Results{}, fmt.Errorf("failed to load fixtures: %w", err)
	}
	coreClient, err := petstore.NewClient(petstore.Config{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return contracttest.Results{}, err
	}
	client := petsobs.New(
		coreClient,
		petsobs.WithLogger(logger),
		petsobs.WithTracer(instruments.Tracer("internal.clients.http.petstore")),
		petsobs.WithMeter(instruments.Meter("internal.clients.http.petstore")),
	)
	env := &scenarios.Env{
		Ctx:        ctx,
		Client:     client,
		Fixtures:   set,
		DeleteWait: cfg.DeleteWait,
	}

	logger.Info("running pet contract suite",
		slog.String("base_url", cfg.BaseURL),
		slog.String("delete_wait", string(cfg.DeleteWait.Mode)),
		slog.String("filters", opts.Filters.Describe()),
	)
	fmt.Fprintf(out, "%s against %s\n", opts.Filters.Describe(), cfg.BaseURL)

	testLogger := contracttest.ConsoleTestLogger{
		Out:                  out,
		DebugOutputOnFailure: true,
		DebugOutputOnSuccess: opts.Debug,
	}
	results := contracttest.Run(opts.Filters.Match, testLogger, func(c *contracttest.Context) {
		scenarios.RunSuite(c, env)
	})
	contracttest.PrintResults(out, results)

	logger.Info("pet contract suite finished",
		slog.Int("passed", results.Count(contracttest.OutcomePassed)),
		slog.Int("failed", len(results.Failures)),
		slog.Int("known_failures", len(results.KnownFailures)),
		slog.Int("skipped", results.Count(contracttest.OutcomeSkipped)),
	)

	ok := results.OK()
	if opts.Strict {
		ok = results.OKStrict()
	}
	if !ok {
		return results, ErrSuiteFailed
	}
	return results, nil
}

// List prints the IDs of the scenarios the filters select.
func List(w io.Writer, filters contracttest.RegexFilters) {
	for _, s := range scenarios.All() {
		if !filters.Match(contracttest.TestID{Path: []string{s.Group, s.Name}}) {
			continue
		}
		if s.ExpectedFailure != "" {
			fmt.Fprintf(w, "%s (expected failure: %s)\n", s.ID(), s.ExpectedFailure)
			continue
		}
		fmt.Fprintln(w, s.ID())
	}
}

// DumpContract writes the named contract's schema as JSON or YAML.
func DumpContract(w io.Writer, name, format string) error {
	c, err := contracts.ByName(name)
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(c.Schema(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode contract %s: %w", name, err)
	}
	switch strings.ToLower(format) {
	case "", "json":
		_, err = fmt.Fprintln(w, string(raw))
		return err
	case "yaml", "yml":
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("encode contract %s: %w", name, err)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode contract %s: %w", name, err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (want json or yaml)", format)
	}
}
