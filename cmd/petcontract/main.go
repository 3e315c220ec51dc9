package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Apurer/petstore-contract-tests/internal/app/contract"
	"github.com/Apurer/petstore-contract-tests/internal/contracttest"
	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/contracts"
	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/scenarios"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, contract.ErrSuiteFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

type runFlags struct {
	baseURL     string
	apiKey      string
	deleteWait  string
	fixturesDir string
	logFormat   string
	strict      bool
	debug       bool
	envFile     string
}

func newRootCmd(out io.Writer) *cobra.Command {
	var filters contracttest.RegexFilters

	rootCmd := &cobra.Command{
		Use:   "petcontract",
		Short: "Contract tests for the petstore pet resource",
		Long: `petcontract runs create, read and delete scenarios against a petstore
deployment and validates responses against the pet schema contract.

Configuration is read from PETSTORE_* environment variables, optionally loaded
from a .env file; flags override the environment.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)
	rootCmd.PersistentFlags().Var(&filters.MustMatch, "run", "Run only scenarios matching the slash-separated regex, e.g. GET/existing")
	rootCmd.PersistentFlags().Var(&filters.MustNotMatch, "skip", "Skip scenarios matching the slash-separated regex")

	rootCmd.AddCommand(newRunCmd(&filters), newListCmd(&filters), newContractsCmd())
	return rootCmd
}

func newRunCmd(filters *contracttest.RegexFilters) *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scenario suite against a petstore deployment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := contract.LoadDotEnv(flags.envFile); err != nil {
				return err
			}
			cfg, err := contract.LoadConfig()
			if err != nil {
				return err
			}
			if err := applyRunFlags(cmd, flags, &cfg); err != nil {
				return err
			}
			_, err = contract.Run(cmd.Context(), cfg, contract.Options{
				Filters: *filters,
				Strict:  flags.strict,
				Debug:   flags.debug,
				Out:     cmd.OutOrStdout(),
			})
			return err
		},
	}
	cmd.Flags().StringVar(&flags.baseURL, "base-url", "", "Base URL of the API (overrides PETSTORE_BASE_URL)")
	cmd.Flags().StringVar(&flags.apiKey, "api-key", "", "Value of the api_key header sent on deletes (overrides PETSTORE_API_KEY)")
	cmd.Flags().StringVar(&flags.deleteWait, "delete-wait", "", "How to wait before deleting a new pet: poll or fixed (overrides PETSTORE_DELETE_WAIT)")
	cmd.Flags().StringVar(&flags.fixturesDir, "fixtures", "", "Directory holding existingPet.json and nonExistentPet.json")
	cmd.Flags().StringVar(&flags.logFormat, "log-format", "", "Log format: json or text (overrides LOG_FORMAT)")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "Fail the run on known failures too")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "Print captured scenario output for passing scenarios")
	cmd.Flags().StringVar(&flags.envFile, "env-file", ".env", "Optional dotenv file to load before reading the environment")
	return cmd
}

func applyRunFlags(cmd *cobra.Command, flags runFlags, cfg *contract.Config) error {
	changed := cmd.Flags().Changed
	if changed("base-url") {
		cfg.BaseURL = flags.baseURL
	}
	if changed("api-key") {
		cfg.APIKey = flags.apiKey
	}
	if changed("fixtures") {
		cfg.FixturesDir = flags.fixturesDir
	}
	if changed("log-format") {
		cfg.LogFormat = flags.logFormat
	}
	if changed("delete-wait") {
		mode, err := scenarios.ParseWaitMode(flags.deleteWait)
		if err != nil {
			return err
		}
		cfg.DeleteWait.Mode = mode
	}
	return cfg.Validate()
}

func newListCmd(filters *contracttest.RegexFilters) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List scenario IDs selected by --run and --skip",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			contract.List(cmd.OutOrStdout(), *filters)
		},
	}
}

func newContractsCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:       "contracts [name]",
		Short:     "Print a schema contract",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: contracts.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return contract.DumpContract(cmd.OutOrStdout(), args[0], output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format: json or yaml")
	return cmd
}
