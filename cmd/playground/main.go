package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/use-agent/scrape-playground/api/handler"
	"github.com/use-agent/scrape-playground/config"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:     "playground",
		Short:   "Scrape playground proxy",
		Version: handler.Version,
		Long: `playground forwards scrape requests to Firecrawl and returns the result
as JSON. Without FIRECRAWL_API_KEY it serves a mock response instead.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (yaml, toml or json)")

	rootCmd.AddCommand(newServeCmd(), newMockCmd(), newScrapeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads configuration and installs the default logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	initLogger(cfg.Log)
	return cfg, nil
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var h slog.Handler
	if cfg.Format == "text" {
		h = tint.NewHandler(os.Stderr, &tint.Options{
			NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
			TimeFormat: time.Kitchen,
			Level:      level,
		})
	} else {
		h = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	slog.SetDefault(slog.New(h))
}
