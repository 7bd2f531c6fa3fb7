package models

// ScrapeResponse is the response for POST /api/scrape.
//
// Exactly one of Data and Error is meaningful: Data when Success is true,
// Error (always non-empty) when it is false.
type ScrapeResponse struct {
	Success bool        `json:"success"`
	Data    *ScrapeData `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ScrapeData is the normalised page content returned to the caller.
type ScrapeData struct {
	Markdown string         `json:"markdown"`
	HTML     string         `json:"html"`
	Metadata map[string]any `json:"metadata"`

	// Optional fields are present only when the upstream service sent them.
	RawHTML    string   `json:"rawHtml,omitempty"`
	Links      []string `json:"links,omitempty"`
	Screenshot string   `json:"screenshot,omitempty"`

	// Images are parsed from HTML so clients can render a media tab
	// without their own DOM parser.
	Images []Image `json:"images,omitempty"`
}

// Image represents an <img> element found in the returned HTML.
type Image struct {
	Src   string `json:"src"`
	Alt   string `json:"alt"`
	Title string `json:"title,omitempty"`
}

// NewErrorResponse builds a failed ScrapeResponse.
func NewErrorResponse(message string) ScrapeResponse {
	if message == "" {
		message = MsgInternal
	}
	return ScrapeResponse{Success: false, Error: message}
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status     string `json:"status"`
	Uptime     string `json:"uptime"`
	Mode       string `json:"mode"` // "live" or "mock"
	RecentRuns int    `json:"recent_runs"`
	Version    string `json:"version"`
}
