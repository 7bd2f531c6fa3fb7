package models

// DefaultFormats is used when a request names no output formats.
var DefaultFormats = []string{"markdown", "html"}

// ScrapeRequest is the payload for POST /api/scrape.
type ScrapeRequest struct {
	// URL is the target page to scrape. Required; validated by the handler
	// rather than by binding tags so a missing URL yields the plain 400 body.
	URL string `json:"url"`

	// Formats lists the output kinds requested from the upstream service.
	// Default: ["markdown", "html"].
	Formats []string `json:"formats,omitempty"`

	// OnlyMainContent asks the upstream service to drop nav/footer chrome.
	// Forwarded only when set.
	OnlyMainContent *bool `json:"onlyMainContent,omitempty"`

	// WaitFor is an upstream render delay in milliseconds. Forwarded only when set.
	WaitFor int `json:"waitFor,omitempty"`

	// MaxAge is forwarded upstream and, when > 0 and the cache is enabled,
	// also allows a cached response younger than MaxAge milliseconds to be served.
	MaxAge int `json:"maxAge,omitempty"`
}

// Defaults applies default values to unset fields. An explicit empty
// formats list is treated like an absent one.
func (r *ScrapeRequest) Defaults() {
	if len(r.Formats) == 0 {
		r.Formats = append([]string(nil), DefaultFormats...)
	}
}
