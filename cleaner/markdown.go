package cleaner

import (
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// Renderer converts scrape results to terminal-friendly Markdown. It is used
// by the CLI and MCP front ends when the upstream service returned HTML but
// no Markdown. The zero value is not usable; call NewRenderer.
type Renderer struct {
	conv *converter.Converter
}

// NewRenderer creates a goroutine-safe Renderer:
//
//   - base plugin: strips script, style, iframe, noscript and comments.
//   - commonmark plugin: standard Markdown rendering.
//   - table plugin: keeps tables, with minimal cell padding.
func NewRenderer() *Renderer {
	return &Renderer{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(
					table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
				),
			),
		),
	}
}

// ToMarkdown converts htmlContent to Markdown. pageURL resolves relative
// links and image sources; it may be empty.
func (r *Renderer) ToMarkdown(htmlContent, pageURL string) (string, error) {
	if pageURL == "" {
		return r.conv.ConvertString(htmlContent)
	}
	return r.conv.ConvertString(htmlContent, converter.WithDomain(pageURL))
}

// Markdown returns markdown when it is non-empty and otherwise converts html.
func (r *Renderer) Markdown(markdown, html, pageURL string) (string, error) {
	if markdown != "" || html == "" {
		return markdown, nil
	}
	return r.ToMarkdown(html, pageURL)
}
