package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/use-agent/scrape-playground/cache"
	"github.com/use-agent/scrape-playground/config"
	"github.com/use-agent/scrape-playground/counter"
	"github.com/use-agent/scrape-playground/firecrawl"
	"github.com/use-agent/scrape-playground/history"
)

func newTestRouter(t *testing.T, mutate func(*config.Config)) http.Handler {
	t.Helper()
	t.Setenv("FIRECRAWL_API_KEY", "")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Server.Mode = "test"
	cfg.RateLimit.RequestsPerSecond = 0
	if mutate != nil {
		mutate(cfg)
	}

	cc := cache.New(cfg.Cache.MaxEntries)
	t.Cleanup(cc.Stop)

	return NewRouter(cfg, Deps{
		Upstream:    firecrawl.NewClient("http://127.0.0.1:1", nil),
		Credentials: cfg,
		Runs:        history.New(cfg.History.Size, ""),
		Counter:     counter.New(""),
		Cache:       cc,
		StartTime:   time.Now(),
	})
}

func serve(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_Routes(t *testing.T) {
	r := newTestRouter(t, nil)

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodPost, "/api/scrape", `{"url":"example.com"}`, http.StatusOK},
		{http.MethodPost, "/api/v1/scrape", `{"url":"example.com"}`, http.StatusOK},
		{http.MethodPost, "/api/scrape", `{}`, http.StatusBadRequest},
		{http.MethodGet, "/api/v1/health", "", http.StatusOK},
		{http.MethodGet, "/api/v1/runs", "", http.StatusOK},
		{http.MethodGet, "/api/v1/runs/missing", "", http.StatusNotFound},
		{http.MethodDelete, "/api/v1/runs", "", http.StatusNoContent},
		{http.MethodGet, "/api/v1/counter", "", http.StatusOK},
		{http.MethodPost, "/api/v1/counter/add", "", http.StatusOK},
		{http.MethodPut, "/api/v1/counter/name", `{"name":"n"}`, http.StatusOK},
		{http.MethodGet, "/api/v1/unknown", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, serve(r, tt.method, tt.path, tt.body, nil).Code)
		})
	}
}

func TestRouter_AuthLeavesHealthOpen(t *testing.T) {
	r := newTestRouter(t, func(cfg *config.Config) {
		cfg.Auth.Enabled = true
		cfg.Auth.APIKeys = []string{"secret"}
	})

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/v1/health", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodPost, "/api/scrape", `{"url":"example.com"}`, nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/api/scrape", `{"url":"example.com"}`,
		map[string]string{"Authorization": "Bearer secret"}).Code)
}

func TestRouter_RateLimitShared(t *testing.T) {
	r := newTestRouter(t, func(cfg *config.Config) {
		cfg.RateLimit.RequestsPerSecond = 0.001
		cfg.RateLimit.Burst = 1
	})

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/api/scrape", `{"url":"example.com"}`, nil).Code)
	// The second call on a different path draws from the same bucket.
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodGet, "/api/v1/runs", "", nil).Code)
}
