// Package firecrawl is a minimal client for the upstream scrape endpoint.
package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/use-agent/scrape-playground/models"
)

// DefaultEndpoint is the hosted v2 scrape endpoint.
const DefaultEndpoint = "https://api.firecrawl.dev/v2/scrape"

// Client posts scrape requests to the upstream service.
// It has no timeout of its own: the caller's context is the only bound.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// NewClient creates a Client for endpoint. Pass a nil httpClient to use a
// plain http.Client with the default transport.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{httpClient: httpClient, endpoint: endpoint}
}

// Endpoint returns the upstream URL requests are sent to.
func (c *Client) Endpoint() string { return c.endpoint }

// scrapeBody is the upstream request payload.
type scrapeBody struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats"`
	OnlyMainContent *bool    `json:"onlyMainContent,omitempty"`
	WaitFor         int      `json:"waitFor,omitempty"`
	MaxAge          int      `json:"maxAge,omitempty"`
}

// scrapeResult is the subset of the upstream success body we keep.
type scrapeResult struct {
	Data *struct {
		Markdown   string         `json:"markdown"`
		HTML       string         `json:"html"`
		Metadata   map[string]any `json:"metadata"`
		RawHTML    string         `json:"rawHtml"`
		Links      []string       `json:"links"`
		Screenshot string         `json:"screenshot"`
	} `json:"data"`
}

// errorBody captures an upstream error payload. Error is left untyped
// because only a string value is usable as a message.
type errorBody struct {
	Error any `json:"error"`
}

// Scrape performs exactly one POST to the upstream endpoint and returns the
// normalised data. Every failure is returned as a classified
// *models.ScrapeError (see Classify); none is retried.
func (c *Client) Scrape(ctx context.Context, apiKey string, req *models.ScrapeRequest) (*models.ScrapeData, error) {
	bodyBytes, err := json.Marshal(scrapeBody{
		URL:             req.URL,
		Formats:         req.Formats,
		OnlyMainContent: req.OnlyMainContent,
		WaitFor:         req.WaitFor,
		MaxAge:          req.MaxAge,
	})
	if err != nil {
		return nil, Classify(fmt.Sprintf("marshal request: %v", err), err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, Classify(err.Error(), err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, Classify(transportMessage(ctx), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Classify("failed to read upstream response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := upstreamErrorMessage(resp, respBody)
		return nil, Classify(msg, fmt.Errorf("upstream status %d: %s", resp.StatusCode, msg))
	}

	var result scrapeResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, Classify(err.Error(), err)
	}

	data := &models.ScrapeData{Metadata: map[string]any{}}
	if d := result.Data; d != nil {
		data.Markdown = d.Markdown
		data.HTML = d.HTML
		if d.Metadata != nil {
			data.Metadata = d.Metadata
		}
		data.RawHTML = d.RawHTML
		data.Links = d.Links
		data.Screenshot = d.Screenshot
	}
	return data, nil
}

// transportMessage describes a failed round trip without the dial address,
// whose port digits would otherwise feed the substring classification.
func transportMessage(ctx context.Context) string {
	if err := ctx.Err(); err != nil {
		return err.Error()
	}
	return "upstream request failed"
}

// upstreamErrorMessage prefers the string "error" field of a JSON body and
// falls back to "HTTP <status>: <statusText>".
func upstreamErrorMessage(resp *http.Response, body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if s, ok := eb.Error.(string); ok && s != "" {
			return s
		}
	}
	return fmt.Sprintf("HTTP %d: %s", resp.StatusCode, statusText(resp))
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// Classify maps an upstream failure message to a terminal error, by
// substring, in priority order: 401/unauthorized, 403/forbidden,
// 429/rate limit, anything else. Matching ignores case.
func Classify(message string, cause error) *models.ScrapeError {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "401") || strings.Contains(lower, "unauthorized"):
		return models.NewScrapeError(models.ErrCodeUnauthorized, models.MsgInvalidAPIKey, cause)
	case strings.Contains(lower, "403") || strings.Contains(lower, "forbidden"):
		return models.NewScrapeError(models.ErrCodeForbidden, models.MsgForbidden, cause)
	case strings.Contains(lower, "429") || strings.Contains(lower, "rate limit"):
		return models.NewScrapeError(models.ErrCodeRateLimited, models.MsgRateLimited, cause)
	default:
		if message == "" {
			message = models.MsgUnknownError
		}
		return models.NewScrapeError(models.ErrCodeUpstream, models.MsgScrapeFailed+message, cause)
	}
}
