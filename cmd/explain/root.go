package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/markdave123-py/contexta-explain/internal/app"
	"github.com/markdave123-py/contexta-explain/internal/config"
	"github.com/markdave123-py/contexta-explain/internal/logger"
)

var (
	logLevel string
	noDelay  bool
)

var rootCmd = &cobra.Command{
	Use:   "explain",
	Short: "Explain a message or a PDF and print the event stream",
	Long: `explain runs the same pipeline as the HTTP API and writes the
text/event-stream frames to stdout. Logs go to stderr.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noDelay, "no-delay", false, "write frames without pacing")
}

// newApp wires the application from the environment with logs on stderr.
func newApp(ctx context.Context) (*app.App, error) {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if noDelay {
		cfg.StreamDelay = 0
	}

	lg, err := logger.New(logger.Config{Level: logLevel, Encoding: "console", Stderr: true})
	if err != nil {
		return nil, err
	}
	return app.NewApp(ctx, cfg, lg)
}
