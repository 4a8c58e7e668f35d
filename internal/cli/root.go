// Package cli contains the sundarban-extract command surface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"sundarban-extract/internal/config"
)

var (
	verbose bool
	cfg     *config.AppConfig
	logger  *slog.Logger
	version = "dev"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sundarban-extract",
	Short: "Remote-sensing time series for the Sundarbans",
	Long: `sundarban-extract pulls environmental time series for the Sundarbans
region of interest from an Earth Engine compute gateway, aggregates each
variable into fixed-length windows, and writes one delimited file per
variable.

Example usage:
  sundarban-extract extract --all          # Extract every registered variable
  sundarban-extract extract ndvi           # Extract a single variable
  sundarban-extract variables              # List the registered variables`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI.
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initConfig loads the environment configuration and sets up the logger.
// Every log line of a run carries the same run id.
func initConfig() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := parseLevel(cfg.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	logger = slog.New(handler).With("run_id", uuid.NewString())

	logger.Debug("configuration loaded",
		"gateway_url", cfg.GatewayURL,
		"start_date", cfg.StartDate.Format(config.DateLayout),
		"end_date", cfg.EndDate.Format(config.DateLayout),
		"output_dir", cfg.OutputDir,
	)
	return nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
