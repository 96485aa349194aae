package components

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"html/template"
	"strings"
)

// JSLinker is an interface that Components can fulfill to include some
// JavaScript that should be loaded separately from the HTML document, using a
// <script> element with a src attribute.
type JSLinker interface {
	// LinkJS returns the scripts the Component needs, in the order they
	// should be loaded.
	LinkJS(context.Context) []JSLink
}

// JSEmbedder is an interface that Components can fulfill to include some
// JavaScript that should be embedded directly into the rendered HTML.
type JSEmbedder interface {
	// EmbedJS returns the JavaScript, without <script> tags, that should
	// be embedded directly in the output HTML.
	EmbedJS(context.Context) []JSInline
}

// JSLink is a script that will be loaded with a <script src> element.
type JSLink struct {
	// Src is the URL of the script. Relative URLs are prefixed with the
	// Engine's static URL.
	Src string

	// Module marks the script as an ES module. Every script is treated as
	// a module when the Engine is configured to import scripts as
	// modules.
	Module bool
}

func (link JSLink) key() string {
	return "js-link:" + link.Src
}

func (JSLink) linked() bool {
	return true
}

func (link JSLink) render(cfg Config) string {
	return "<script" + scriptType(cfg, link.Module) + ` src="` +
		template.HTMLEscapeString(cfg.staticPath(link.Src)) + `"></script>`
}

// JSInline is a block of JavaScript that will be embedded in a <script>
// element.
type JSInline struct {
	// JS is the script's contents, without <script> tags.
	JS template.JS

	// Module marks the script as an ES module.
	Module bool
}

func (block JSInline) key() string {
	checksum := sha256.Sum256([]byte(block.JS))
	return "js-inline:" + hex.EncodeToString(checksum[:])
}

func (JSInline) linked() bool {
	return false
}

func (block JSInline) render(cfg Config) string {
	return "<script" + scriptType(cfg, block.Module) + ">\n" + strings.TrimSpace(string(block.JS)) + "\n</script>"
}

func scriptType(cfg Config, module bool) string {
	if module || cfg.ImportScriptsAsModules {
		return ` type="module"`
	}
	return ""
}

// jsResources returns the JavaScript a component declares: its links, in
// order, followed by its inline blocks, in order.
func jsResources(ctx context.Context, component Component) (links, blocks []resource) {
	if linker, ok := component.(JSLinker); ok {
		for _, link := range linker.LinkJS(ctx) {
			links = append(links, link)
		}
	}
	if embedder, ok := component.(JSEmbedder); ok {
		for _, block := range embedder.EmbedJS(ctx) {
			blocks = append(blocks, block)
		}
	}
	return links, blocks
}
