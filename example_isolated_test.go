package components_test

import (
	"context"
	"os"

	"impractical.co/components"
)

func ExampleEngine_Render_isolated() {
	templates := staticFS{
		"greeting.html": `Hello, {{ user|default:"stranger" }}{% if punctuation %}{{ punctuation }}{% endif %}`,

		// a trailing "only" keeps the page's variables away from the
		// component; only the arguments passed to it are visible
		"page.html": `{% component "greeting" punctuation="!" %}
{% component "greeting" punctuation="?" only %}`,
	}

	registry := components.NewRegistry()
	registry.MustRegister("greeting", &components.DeclaredComponent{
		TemplatePath: "greeting.html",
		PropDecl: components.Props{
			Keyword: []components.Prop{
				components.Optional("punctuation", "."),
			},
		},
	})

	engine, err := components.NewEngine(templates, registry)
	if err != nil {
		panic(err)
	}

	err = engine.Render(context.Background(), os.Stdout, "page.html", map[string]any{
		"user": "Visitor",
	})
	if err != nil {
		panic(err)
	}

	// Output:
	// Hello, Visitor!
	// Hello, stranger?
}
