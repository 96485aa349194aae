package components

import (
	"bytes"
	"regexp"
)

const (
	// CSSPlaceholder is written to the output by the
	// component_css_dependencies and component_dependencies tags. The
	// first one in a response is replaced with the CSS of every Component
	// the response rendered; any others are removed.
	CSSPlaceholder = `<link name="CSS_PLACEHOLDER" href="#">`

	// JSPlaceholder is written to the output by the
	// component_js_dependencies and component_dependencies tags. The first
	// one in a response is replaced with the JavaScript of every Component
	// the response rendered; any others are removed.
	JSPlaceholder = `<src name="JS_PLACEHOLDER" href="#">`
)

var placeholderPattern = regexp.MustCompile(regexp.QuoteMeta(CSSPlaceholder) + "|" + regexp.QuoteMeta(JSPlaceholder))

// ReplacePlaceholders returns content with the first CSSPlaceholder replaced
// by css and the first JSPlaceholder replaced by js. Every later placeholder
// of either kind is removed, so the markup appears exactly once no matter how
// many placeholder tags the templates used.
func ReplacePlaceholders(content, css, js []byte) []byte {
	result, _ := replacePlaceholders(content, css, js)
	return result
}

func replacePlaceholders(content, css, js []byte) ([]byte, int) {
	replacer := &dependencyReplacer{css: css, js: js}
	result := placeholderPattern.ReplaceAllFunc(content, replacer.replace)
	return result, replacer.count
}

// dependencyReplacer hands out each kind's markup on the first match of that
// kind's placeholder and nothing on every match after it.
type dependencyReplacer struct {
	css, js []byte
	count   int
}

func (r *dependencyReplacer) replace(match []byte) []byte {
	r.count++
	var replacement []byte
	if bytes.Equal(match, []byte(CSSPlaceholder)) {
		replacement, r.css = r.css, nil
	} else {
		replacement, r.js = r.js, nil
	}
	return replacement
}
