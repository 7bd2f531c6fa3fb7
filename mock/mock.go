// Package mock produces the placeholder scrape response served when no
// upstream API key is configured.
package mock

import (
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	"github.com/use-agent/scrape-playground/models"
)

// FallbackDomain labels URLs that cannot be parsed.
const FallbackDomain = "Sample Website"

// Warning is carried in metadata.warning of every mock response.
const Warning = "Mock response - API key not configured"

const description = "This is a mock response. Configure your Firecrawl API key to see real data."

// Placeholder images embedded in the HTML so media rendering can be exercised.
var placeholderImages = []struct{ src, alt string }{
	{"https://placehold.co/600x400/png?text=Mock+Image+1", "Mock placeholder image 1"},
	{"https://placehold.co/400x300/png?text=Mock+Image+2", "Mock placeholder image 2"},
}

// Response builds a successful mock response for rawURL. Only the embedded
// timestamp depends on now; everything else is a function of rawURL.
func Response(rawURL string, now time.Time) *models.ScrapeResponse {
	domain := Domain(rawURL)
	ts := Timestamp(now)

	return &models.ScrapeResponse{
		Success: true,
		Data: &models.ScrapeData{
			Markdown: markdown(domain, rawURL, ts),
			HTML:     htmlFragment(domain, rawURL, ts),
			Metadata: map[string]any{
				"title":       domain + " - Mock Response",
				"description": description,
				"url":         rawURL,
				"statusCode":  200,
				"timestamp":   ts,
				"warning":     Warning,
			},
		},
	}
}

// Domain derives a display name from rawURL: https:// is assumed when no
// scheme is given, a leading "www." is stripped, and anything unparsable
// falls back to FallbackDomain.
func Domain(rawURL string) string {
	candidate := rawURL
	if !strings.HasPrefix(candidate, "http") {
		candidate = "https://" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil || u.Hostname() == "" {
		return FallbackDomain
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// Timestamp formats t as ISO-8601 UTC with millisecond precision.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

func markdown(domain, rawURL, ts string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", domain)
	b.WriteString("**⚠️ This is a mock response because no Firecrawl API key is configured.**\n\n")
	b.WriteString("To use the real Firecrawl API, please:\n\n")
	b.WriteString("1. Get your API key from [https://firecrawl.dev](https://firecrawl.dev)\n")
	b.WriteString("2. Export it before starting the server:\n")
	b.WriteString("   ```\n   FIRECRAWL_API_KEY=fc-your-actual-api-key\n   ```\n")
	b.WriteString("3. Send the request again; the key is read on every request\n\n")
	fmt.Fprintf(&b, "## Sample Content for %s\n\n", rawURL)
	b.WriteString("This would normally contain the actual scraped content from the website.\n\n")
	b.WriteString("### Key Features\n")
	b.WriteString("- Clean markdown formatting\n")
	b.WriteString("- Structured data extraction\n")
	b.WriteString("- Metadata preservation\n")
	b.WriteString("- Fast processing\n\n")
	b.WriteString("> Set FIRECRAWL_API_KEY to see real scraping results.\n\n")
	b.WriteString("### Technical Details\n")
	fmt.Fprintf(&b, "- **URL**: %s\n", rawURL)
	fmt.Fprintf(&b, "- **Scraped at**: %s\n", ts)
	b.WriteString("- **Status**: Mock Response (API key not configured)")
	return b.String()
}

func htmlFragment(domain, rawURL, ts string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>%s</h1>", html.EscapeString(domain))
	b.WriteString("<p><strong>⚠️ Mock response - configure API key to use real Firecrawl</strong></p>")
	fmt.Fprintf(&b, "<p>URL: %s</p>", html.EscapeString(rawURL))
	fmt.Fprintf(&b, "<p>Scraped at %s</p>", ts)
	for _, img := range placeholderImages {
		fmt.Fprintf(&b, `<img src="%s" alt="%s">`, img.src, img.alt)
	}
	return b.String()
}
