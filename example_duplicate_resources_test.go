package components_test

import (
	"context"
	"os"

	"impractical.co/components"
)

type SharedStyleButton struct{}

func (SharedStyleButton) Template(_ context.Context, _ map[string]any) string {
	return "button.html"
}

func (SharedStyleButton) Props() components.Props {
	return components.Props{
		Positional: []components.Prop{components.Required("label")},
	}
}

func (SharedStyleButton) LinkCSS(_ context.Context) []components.CSSLink {
	// shared.css has to load before button.css
	return []components.CSSLink{
		{Href: "shared.css"},
		{Href: "button.css"},
	}
}

func (SharedStyleButton) EmbedJS(_ context.Context) []components.JSInline {
	return []components.JSInline{
		{JS: `console.log("button loaded");`},
	}
}

type SharedStyleBadge struct{}

func (SharedStyleBadge) Template(_ context.Context, _ map[string]any) string {
	return "badge.html"
}

func (SharedStyleBadge) LinkCSS(_ context.Context) []components.CSSLink {
	return []components.CSSLink{
		{Href: "shared.css"},
		{Href: "badge.css", Media: "screen"},
	}
}

func ExampleEngine_RenderDocument_duplicateResources() {
	templates := staticFS{
		"button.html": `<button>{{ label }}</button>`,
		"badge.html":  `<span class="badge"></span>`,
		"page.html": `{% component_dependencies %}
{% component "button" "Save" %}{% component "button" "Cancel" %}{% component "badge" %}
{% component_dependencies %}`,
	}

	registry := components.NewRegistry()
	registry.MustRegister("button", SharedStyleButton{})
	registry.MustRegister("badge", SharedStyleBadge{})

	engine, err := components.NewEngine(templates, registry, components.WithStaticURL("https://cdn.example.com/"))
	if err != nil {
		panic(err)
	}

	// every resource is rendered once, at the first placeholder; the
	// second placeholder is removed
	err = engine.RenderDocument(context.Background(), os.Stdout, "page.html", nil)
	if err != nil {
		panic(err)
	}

	// Output:
	// <link href="https://cdn.example.com/shared.css" media="all" rel="stylesheet">
	// <link href="https://cdn.example.com/button.css" media="all" rel="stylesheet">
	// <link href="https://cdn.example.com/badge.css" media="screen" rel="stylesheet"><script>
	// console.log("button loaded");
	// </script>
	// <button>Save</button><button>Cancel</button><span class="badge"></span>
}
