package cleaner

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/scrape-playground/models"
)

// MaxImages caps how many images ExtractImages returns.
const MaxImages = 20

// defaultAlt labels images that carry no alt text.
const defaultAlt = "Image"

// ExtractImages returns the <img> elements of an HTML fragment in document
// order. The source is src, falling back to data-src for lazy-loaded images,
// resolved against pageURL when it is an absolute URL. Empty and data:
// sources are skipped, duplicates are dropped and at most MaxImages are
// returned. Unparsable input yields nil.
func ExtractImages(rawHTML, pageURL string) []models.Image {
	if strings.TrimSpace(rawHTML) == "" {
		return nil
	}

	var base *url.URL
	if u, err := url.Parse(pageURL); err == nil && u.IsAbs() {
		base = u
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	var images []models.Image
	seen := make(map[string]struct{})
	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if src == "" {
			src = strings.TrimSpace(s.AttrOr("data-src", ""))
		}
		if src == "" || strings.HasPrefix(strings.ToLower(src), "data:") {
			return true
		}

		// Resolve relative URLs.
		if base != nil {
			resolved, err := base.Parse(src)
			if err != nil {
				return true
			}
			src = resolved.String()
		}

		if _, ok := seen[src]; ok {
			return true
		}
		seen[src] = struct{}{}

		alt := strings.TrimSpace(s.AttrOr("alt", ""))
		if alt == "" {
			alt = defaultAlt
		}
		images = append(images, models.Image{
			Src:   src,
			Alt:   alt,
			Title: strings.TrimSpace(s.AttrOr("title", "")),
		})
		return len(images) < MaxImages
	})

	return images
}
