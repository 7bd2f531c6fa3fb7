package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/use-agent/scrape-playground/cleaner"
	"github.com/use-agent/scrape-playground/firecrawl"
	"github.com/use-agent/scrape-playground/mock"
	"github.com/use-agent/scrape-playground/models"
)

var (
	asJSON  bool
	formats []string
	timeout time.Duration
)

func newMockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mock <url>",
		Short:   "Print the mock response for a URL",
		Example: "  playground mock example.com\n  playground mock --json https://go.dev/doc",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResponse(cmd.OutOrStdout(), mock.Response(args[0], time.Now()), args[0])
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full JSON response")
	return cmd
}

func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape <url>",
		Short: "Scrape a URL once and print the result",
		Long: `scrape makes a single upstream call with FIRECRAWL_API_KEY and prints the
page as Markdown. Without a key it prints the mock response.`,
		Example: "  FIRECRAWL_API_KEY=fc-... playground scrape example.com\n  playground scrape --json -f markdown,links https://go.dev",
		Args:    cobra.ExactArgs(1),
		RunE:    runScrape,
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full JSON response")
	cmd.Flags().StringSliceVarP(&formats, "formats", "f", models.DefaultFormats, "Formats requested from upstream")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 60*time.Second, "Upstream request timeout")
	return cmd
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	target := firecrawl.FormatURL(args[0])
	apiKey, ok := cfg.Credential()
	if !ok {
		slog.Warn("no API key configured, printing mock response", "url", target)
		return printResponse(cmd.OutOrStdout(), mock.Response(target, time.Now()), target)
	}

	req := &models.ScrapeRequest{URL: target, Formats: formats}
	req.Defaults()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	data, err := firecrawl.NewClient(cfg.Firecrawl.Endpoint, nil).Scrape(ctx, apiKey, req)
	if err != nil {
		return err
	}
	data.Images = cleaner.ExtractImages(data.HTML, target)
	return printResponse(cmd.OutOrStdout(), &models.ScrapeResponse{Success: true, Data: data}, target)
}

// printResponse writes resp as indented JSON with --json, otherwise as
// Markdown, converting the HTML when the upstream sent none.
func printResponse(w io.Writer, resp *models.ScrapeResponse, pageURL string) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	md, err := cleaner.NewRenderer().Markdown(resp.Data.Markdown, resp.Data.HTML, pageURL)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = fmt.Fprintln(w, md)
	return err
}
