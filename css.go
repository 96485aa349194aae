package components

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"html/template"
	"strings"
)

// CSSLinker is an interface that Components can fulfill to include some CSS
// that should be loaded through a <link> element. Every Component rendered
// during a response contributes its links to the markup that replaces the CSS
// placeholder, with duplicates removed.
type CSSLinker interface {
	// LinkCSS returns the stylesheets the Component needs, in the order
	// they should be loaded.
	LinkCSS(context.Context) []CSSLink
}

// CSSEmbedder is an interface that Components can fulfill to include some CSS
// that should be embedded directly into the rendered HTML, inside a <style>
// element.
type CSSEmbedder interface {
	// EmbedCSS returns the CSS blocks, without <style> tags, the
	// Component needs, in the order they should appear.
	EmbedCSS(context.Context) []CSSInline
}

// CSSLink is a stylesheet that will be linked to with a <link> element.
type CSSLink struct {
	// Href is the URL of the stylesheet. Relative URLs are prefixed with
	// the Engine's static URL.
	Href string

	// Media is the media attribute of the <link> element. It defaults to
	// "all".
	Media string
}

func (link CSSLink) key() string {
	return "css-link:" + link.media() + ":" + link.Href
}

func (CSSLink) linked() bool {
	return true
}

func (link CSSLink) media() string {
	if link.Media == "" {
		return "all"
	}
	return link.Media
}

func (link CSSLink) render(cfg Config) string {
	return `<link href="` + template.HTMLEscapeString(cfg.staticPath(link.Href)) +
		`" media="` + template.HTMLEscapeString(link.media()) + `" rel="stylesheet">`
}

// CSSInline is a block of CSS that will be embedded in a <style> element.
type CSSInline struct {
	// CSS is the stylesheet's contents, without <style> tags.
	CSS template.CSS
}

func (block CSSInline) key() string {
	checksum := sha256.Sum256([]byte(block.CSS))
	return "css-inline:" + hex.EncodeToString(checksum[:])
}

func (CSSInline) linked() bool {
	return false
}

func (block CSSInline) render(_ Config) string {
	return "<style>\n" + strings.TrimSpace(string(block.CSS)) + "\n</style>"
}

// cssResources returns the CSS a component declares: its links, in order,
// followed by its inline blocks, in order.
func cssResources(ctx context.Context, component Component) (links, blocks []resource) {
	if linker, ok := component.(CSSLinker); ok {
		for _, link := range linker.LinkCSS(ctx) {
			links = append(links, link)
		}
	}
	if embedder, ok := component.(CSSEmbedder); ok {
		for _, block := range embedder.EmbedCSS(ctx) {
			blocks = append(blocks, block)
		}
	}
	return links, blocks
}
