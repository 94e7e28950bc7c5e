package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/partqc/pkg/config"
	"github.com/wonny/partqc/pkg/logger"
)

var (
	// Global flags
	env      string
	logLevel string
	verbose  bool
)

// errAlert is returned by inspect --fail-on-alert when the batch alerts
var errAlert = errors.New("rejection rate above alert threshold")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "qc",
	Short: "Part quality control",
	Long: `qc inspects manufactured parts against size, weight and finish limits
and reports approval and rejection rates.

Usage:
  go run ./cmd/qc [command]

Examples:
  go run ./cmd/qc inspect parts.csv
  go run ./cmd/qc inspect parts.json --format json --fail-on-alert
  go run ./cmd/qc api --port 8080
  go run ./cmd/qc watch /data/line1.csv --schedule "@every 5m"`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// SIGINT/SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errAlert) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

// ExitCode maps a command error onto the process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errAlert):
		return 2
	default:
		return 1
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment override (development|staging|production)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (same as --log-level debug)")
}

// loadConfig loads the environment configuration and applies global flag overrides
func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	if env != "" {
		cfg.Env = env
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, logger.New(cfg), nil
}
