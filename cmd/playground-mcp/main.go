package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/use-agent/scrape-playground/api/handler"
	"github.com/use-agent/scrape-playground/cleaner"
	"github.com/use-agent/scrape-playground/firecrawl"
	"github.com/use-agent/scrape-playground/models"
)

func main() {
	apiURL := os.Getenv("PLAYGROUND_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:3000"
	}
	// Optional: only needed when the proxy has inbound auth enabled.
	apiKey := os.Getenv("PLAYGROUND_API_KEY")

	p := &proxy{
		baseURL: strings.TrimRight(apiURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 120 * time.Second},
	}

	s := server.NewMCPServer(
		"scrape-playground",
		handler.Version,
		server.WithToolCapabilities(false),
	)

	scrapeURLTool := mcp.NewTool("scrape_url",
		mcp.WithDescription("Scrape a web page through the playground proxy and return it as Markdown. Returns a mock page when the proxy has no Firecrawl API key."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the web page to scrape; https:// is assumed when no scheme is given"),
		),
		mcp.WithArray("formats",
			mcp.Description("Formats requested from Firecrawl (default: markdown, html)"),
			mcp.WithStringItems(),
		),
	)
	s.AddTool(scrapeURLTool, handleScrapeURL(p))

	recentRunsTool := mcp.NewTool("recent_runs",
		mcp.WithDescription("List the most recent scrape runs recorded by the proxy, newest first."),
	)
	s.AddTool(recentRunsTool, handleRecentRuns(p))

	clearRunsTool := mcp.NewTool("clear_runs",
		mcp.WithDescription("Delete the recent-runs history held by the proxy."),
	)
	s.AddTool(clearRunsTool, handleClearRuns(p))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// proxy calls the playground HTTP API.
type proxy struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// do sends a request and returns the status code and body.
func (p *proxy) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if p.apiKey != "" {
		req.Header.Set("X-API-Key", p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, raw, nil
}

func handleScrapeURL(p *proxy) server.ToolHandlerFunc {
	renderer := cleaner.NewRenderer()

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil || strings.TrimSpace(url) == "" {
			return mcp.NewToolResultError("url is required"), nil
		}
		target := firecrawl.FormatURL(strings.TrimSpace(url))

		reqBody := models.ScrapeRequest{
			URL:     target,
			Formats: request.GetStringSlice("formats", nil),
		}

		_, body, err := p.do(ctx, http.MethodPost, "/api/scrape", reqBody)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var resp models.ScrapeResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}
		if !resp.Success || resp.Data == nil {
			errMsg := resp.Error
			if errMsg == "" {
				errMsg = "scrape failed"
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		md, err := renderer.Markdown(resp.Data.Markdown, resp.Data.HTML, target)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to render markdown: %v", err)), nil
		}

		return mcp.NewToolResultText(formatScrapeResult(target, resp.Data, md)), nil
	}
}

// formatScrapeResult builds the tool output: a short header, the page
// content, and a footer listing images and links.
func formatScrapeResult(target string, data *models.ScrapeData, md string) string {
	var b strings.Builder
	if title, ok := data.Metadata["title"].(string); ok && title != "" {
		fmt.Fprintf(&b, "Title: %s\n", title)
	}
	fmt.Fprintf(&b, "Source: %s\n", target)
	if warning, ok := data.Metadata["warning"].(string); ok && warning != "" {
		fmt.Fprintf(&b, "Warning: %s\n", warning)
	}
	b.WriteString("\n")
	b.WriteString(md)

	if len(data.Images) > 0 || len(data.Links) > 0 {
		b.WriteString("\n\n---\n")
	}
	if len(data.Images) > 0 {
		fmt.Fprintf(&b, "Images (%d):\n", len(data.Images))
		for _, img := range data.Images {
			fmt.Fprintf(&b, "- %s (%s)\n", img.Src, img.Alt)
		}
	}
	if len(data.Links) > 0 {
		fmt.Fprintf(&b, "Links (%d):\n", len(data.Links))
		for _, l := range data.Links {
			fmt.Fprintf(&b, "- %s\n", l)
		}
	}
	return b.String()
}

func handleRecentRuns(p *proxy) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		status, body, err := p.do(ctx, http.MethodGet, "/api/v1/runs", nil)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if status != http.StatusOK {
			return mcp.NewToolResultError(fmt.Sprintf("recent runs: HTTP %d", status)), nil
		}

		var runs models.RunsResponse
		if err := json.Unmarshal(body, &runs); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}
		return mcp.NewToolResultText(formatRuns(runs)), nil
	}
}

func formatRuns(runs models.RunsResponse) string {
	if runs.Total == 0 {
		return "No recent runs."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Recent runs (%d):\n", runs.Total)
	for _, r := range runs.Runs {
		fmt.Fprintf(&b, "- [%s] %s at %s (id %s)", r.Status, r.URL, r.Timestamp.Format(time.RFC3339), r.ID)
		if r.Status == models.RunError && r.Result != nil {
			fmt.Fprintf(&b, ": %s", r.Result.Error)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func handleClearRuns(p *proxy) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		status, _, err := p.do(ctx, http.MethodDelete, "/api/v1/runs", nil)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if status != http.StatusNoContent && status != http.StatusOK {
			return mcp.NewToolResultError(fmt.Sprintf("clear runs: HTTP %d", status)), nil
		}
		return mcp.NewToolResultText("Recent runs cleared."), nil
	}
}
