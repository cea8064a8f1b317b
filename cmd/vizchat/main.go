// vizchat is the terminal client for the chart-rendering chat backend.
//
// Usage:
//
//	vizchat render -f descriptor.json --format png -o chart.png
//	vizchat render --csv claims.csv --type pie --x "Vehicle Size" --format table
//	vizchat chat
//	vizchat history --format svg
//	vizchat reset
//	vizchat serve --addr :8090
//	vizchat palette -n 16
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spektr-org/vizchat/config"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configPath string
	logLevel   string

	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "vizchat",
	Short: "Chat with the analytics backend and render its charts",
	Long: "vizchat talks to the chat backend, resolves the visualization attached\n" +
		"to each reply, and renders it as an image, spreadsheet, or table.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $VIZCHAT_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn, error (default $VIZCHAT_LOG_LEVEL or info)")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(paletteCmd)
	rootCmd.Version = version
}

func setup(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.LogLevel = logLevel
	}
	log, err := newLogger(loaded.LogLevel)
	if err != nil {
		return err
	}
	cfg, logger = loaded, log
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
