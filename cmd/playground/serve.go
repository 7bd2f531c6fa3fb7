package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/use-agent/scrape-playground/api"
	"github.com/use-agent/scrape-playground/cache"
	"github.com/use-agent/scrape-playground/counter"
	"github.com/use-agent/scrape-playground/firecrawl"
	"github.com/use-agent/scrape-playground/history"
	"github.com/use-agent/scrape-playground/webhook"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP proxy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	// ── 1. Configuration and logging ────────────────────────────────
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	slog.Info("playground starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"credentialed", cfg.Credentialed(),
	)

	// ── 2. Stores ───────────────────────────────────────────────────
	runs := history.New(cfg.History.Size, cfg.History.Path)
	bears := counter.New(cfg.Counter.Path)

	var cc *cache.Cache
	if cfg.Cache.Enabled {
		cc = cache.New(cfg.Cache.MaxEntries)
	}
	defer cc.Stop()

	// ── 3. Router ───────────────────────────────────────────────────
	router := api.NewRouter(cfg, api.Deps{
		Upstream:    firecrawl.NewClient(cfg.Firecrawl.Endpoint, nil),
		Credentials: cfg,
		Runs:        runs,
		Counter:     bears,
		Cache:       cc,
		Webhook:     webhook.NewNotifier(cfg.Webhook.URL, cfg.Webhook.Secret),
		StartTime:   time.Now(),
	})

	// ── 4. HTTP server ──────────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// ── 5. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig.String())
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("playground stopped")
	return nil
}
