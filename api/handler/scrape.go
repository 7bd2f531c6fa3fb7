package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/scrape-playground/cache"
	"github.com/use-agent/scrape-playground/cleaner"
	"github.com/use-agent/scrape-playground/firecrawl"
	"github.com/use-agent/scrape-playground/history"
	"github.com/use-agent/scrape-playground/mock"
	"github.com/use-agent/scrape-playground/models"
	"github.com/use-agent/scrape-playground/webhook"
)

// Upstream performs one scrape against the remote service.
type Upstream interface {
	Scrape(ctx context.Context, apiKey string, req *models.ScrapeRequest) (*models.ScrapeData, error)
}

// Credentials resolves the upstream API key. It is consulted on every
// request; ok is false when no usable key is configured.
type Credentials interface {
	Credential() (key string, ok bool)
}

// Scrape returns a handler for POST /api/scrape.
//
// Orchestration flow:
//  1. Decode the body; any decode failure is an opaque 500.
//  2. Reject a missing URL with 400 before any network call.
//  3. Record a loading run in the history.
//  4. No credential → mock response. Otherwise cache lookup (cache enabled
//     and maxAge > 0), then exactly one upstream call.
//  5. Attach parsed images, finish the run, respond.
func Scrape(up Upstream, creds Credentials, runs *history.Store, cc *cache.Cache, hook *webhook.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		req, err := decodeRequest(c)
		if err != nil {
			slog.Error("scrape: decode request", "error", err)
			respondError(c, models.NewScrapeError(models.ErrCodeInternal, models.MsgInternal, err))
			return
		}

		// ── 2. Validate ─────────────────────────────────────────────
		if req.URL == "" {
			respondError(c, models.NewScrapeError(models.ErrCodeInvalidInput, models.MsgURLRequired, nil))
			return
		}
		req.Defaults()

		run := runs.Start(req.URL)

		// ── 3. Mock mode ────────────────────────────────────────────
		apiKey, ok := creds.Credential()
		if !ok {
			resp := mock.Response(req.URL, time.Now())
			withImages(resp.Data, req.URL)
			finishRun(runs, hook, run.ID, resp)
			slog.Info("scrape served mock response", "url", req.URL, "run_id", run.ID)
			c.JSON(http.StatusOK, resp)
			return
		}

		// ── 4. Cache lookup ─────────────────────────────────────────
		// A nil cache means caching is disabled in configuration.
		useCache := cc != nil && req.MaxAge > 0
		cacheKey := cache.Key(req.URL, req.Formats)
		if useCache {
			if data, hit := cc.Get(cacheKey, req.MaxAge); hit {
				resp := &models.ScrapeResponse{Success: true, Data: data}
				finishRun(runs, hook, run.ID, resp)
				c.Header("X-Cache", "hit")
				c.JSON(http.StatusOK, resp)
				return
			}
			c.Header("X-Cache", "miss")
		}

		// ── 5. Upstream call ────────────────────────────────────────
		data, err := up.Scrape(c.Request.Context(), apiKey, req)
		if err != nil {
			slog.Warn("scrape: upstream failed",
				"url", req.URL,
				"run_id", run.ID,
				"error", err,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			finishRun(runs, hook, run.ID, &models.ScrapeResponse{Success: false, Error: publicMessage(err)})
			respondError(c, err)
			return
		}

		withImages(data, req.URL)
		if useCache {
			cc.Set(cacheKey, data)
		}

		resp := &models.ScrapeResponse{Success: true, Data: data}
		finishRun(runs, hook, run.ID, resp)
		slog.Info("scrape completed",
			"url", req.URL,
			"run_id", run.ID,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		c.JSON(http.StatusOK, resp)
	}
}

// errNotObject rejects bodies that are valid JSON but not an object.
var errNotObject = errors.New("request body is not a JSON object")

// decodeRequest reads the body as a JSON object. A literal null decodes
// without error into a nil pointer and is rejected like any other
// malformed body.
func decodeRequest(c *gin.Context) (*models.ScrapeRequest, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return nil, err
	}
	var req *models.ScrapeRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, errNotObject
	}
	return req, nil
}

// withImages parses the returned HTML for the media view, resolving
// relative sources against the requested page.
func withImages(data *models.ScrapeData, pageURL string) {
	if data == nil || len(data.Images) > 0 {
		return
	}
	data.Images = cleaner.ExtractImages(data.HTML, firecrawl.FormatURL(pageURL))
}

// finishRun records the outcome and notifies the webhook, if any.
func finishRun(runs *history.Store, hook *webhook.Notifier, id string, resp *models.ScrapeResponse) {
	if !runs.Finish(id, resp) {
		return
	}
	if run, ok := runs.Get(id); ok {
		hook.RunFinished(run)
	}
}

// respondError maps a ScrapeError to its HTTP status code and writes the
// failed response body. Anything else becomes the opaque internal error.
func respondError(c *gin.Context, err error) {
	var scrapeErr *models.ScrapeError
	if !errors.As(err, &scrapeErr) {
		scrapeErr = models.NewScrapeError(models.ErrCodeInternal, models.MsgInternal, err)
	}
	c.JSON(scrapeErr.Status(), models.NewErrorResponse(scrapeErr.Message))
}

func publicMessage(err error) string {
	var scrapeErr *models.ScrapeError
	if errors.As(err, &scrapeErr) {
		return scrapeErr.Message
	}
	return models.MsgInternal
}
