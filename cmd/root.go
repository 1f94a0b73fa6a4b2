package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/gasmon/internal/config"
	"github.com/Mohsinsiddi/gasmon/internal/logger"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/gasmon/cmd.Version=1.2.3" .
var Version = "1.0.0"

var (
	cfgDir  string
	cfg     *config.Config
	log     *zap.Logger
	verbose bool
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "gasmon",
	Short: "Ethereum gas spend monitor",
	Long: `gasmon — see how much an Ethereum address has spent on gas.

  Fetches the address's transaction history from Etherscan, keeps the
  successful transactions it sent, and totals the fees by day or month.

Run "gasmon serve" for the web dashboard or "gasmon report" for a terminal
report. Both need an Etherscan API key: set ETHERSCAN_API_KEY (a .env file
in the working directory is read) or store one with: gasmon key set <key>`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config (skip for commands that don't need it).
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		if err := config.LoadDotEnv(""); err != nil {
			return err
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.ApplyEnv(); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		log, err = logger.New(logger.OptionsFromEnv(cfg.LogLevel, verbose))
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		os.Exit(1)
	}
}

func init() {
	// GASMON_CONFIG_DIR env var overrides --config flag default.
	if envDir := os.Getenv(config.EnvConfigDir); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.gasmon)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logs)")

	// Register all sub-commands.
	rootCmd.AddCommand(
		serveCmd,
		reportCmd,
		keyCmd,
		configCmd,
	)
}
