package firecrawl

import "strings"

// FormatURL prefixes https:// when raw carries neither http:// nor https://.
// The proxy forwards URLs untouched; front ends call this before submitting.
func FormatURL(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}
