package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/scrape-playground/models"
)

func newProxy(t *testing.T, h http.HandlerFunc) *proxy {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &proxy{baseURL: srv.URL, apiKey: "k", client: srv.Client()}
}

func callTool(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args

	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func TestScrapeURL(t *testing.T) {
	gotCh := make(chan models.ScrapeRequest, 1)
	p := newProxy(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/scrape", r.URL.Path)
		assert.Equal(t, "k", r.Header.Get("X-API-Key"))
		var got models.ScrapeRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		gotCh <- got
		_ = json.NewEncoder(w).Encode(models.ScrapeResponse{
			Success: true,
			Data: &models.ScrapeData{
				HTML:     "<h1>Hello</h1>",
				Metadata: map[string]any{"title": "Hello"},
				Images:   []models.Image{{Src: "https://a.test/x.png", Alt: "x"}},
			},
		})
	})

	text, isErr := callTool(t, handleScrapeURL(p), map[string]any{"url": "example.com"})
	assert.False(t, isErr)
	assert.Equal(t, "https://example.com", (<-gotCh).URL)
	assert.Contains(t, text, "Title: Hello")
	assert.Contains(t, text, "# Hello")
	assert.Contains(t, text, "https://a.test/x.png")
}

func TestScrapeURL_ProxyError(t *testing.T) {
	p := newProxy(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(models.NewErrorResponse(models.MsgInvalidAPIKey))
	})

	text, isErr := callTool(t, handleScrapeURL(p), map[string]any{"url": "https://example.com"})
	assert.True(t, isErr)
	assert.Equal(t, models.MsgInvalidAPIKey, text)
}

func TestScrapeURL_MissingURL(t *testing.T) {
	text, isErr := callTool(t, handleScrapeURL(&proxy{}), map[string]any{})
	assert.True(t, isErr)
	assert.Equal(t, "url is required", text)
}

func TestRecentRunsAndClear(t *testing.T) {
	var cleared atomic.Bool
	p := newProxy(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodDelete:
			cleared.Store(true)
			w.WriteHeader(http.StatusNoContent)
		default:
			runs := []models.Run{{
				ID:        "r1",
				URL:       "https://example.com",
				Status:    models.RunError,
				Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
				Result:    &models.ScrapeResponse{Error: models.MsgRateLimited},
			}}
			_ = json.NewEncoder(w).Encode(models.RunsResponse{Runs: runs, Total: len(runs)})
		}
	})

	text, isErr := callTool(t, handleRecentRuns(p), nil)
	assert.False(t, isErr)
	assert.Contains(t, text, "[error] https://example.com at 2024-01-02T03:04:05Z (id r1): "+models.MsgRateLimited)

	text, isErr = callTool(t, handleClearRuns(p), nil)
	assert.False(t, isErr)
	assert.True(t, cleared.Load())
	assert.Equal(t, "Recent runs cleared.", text)
}

func TestFormatRuns_Empty(t *testing.T) {
	assert.Equal(t, "No recent runs.", formatRuns(models.RunsResponse{}))
}
