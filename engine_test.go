package components_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"go.opentelemetry.io/otel/trace/noop"

	"impractical.co/components"
)

func newTestEngine(t *testing.T, templates staticFS, opts ...components.Option) *components.Engine {
	t.Helper()

	registry := components.NewRegistry()
	registry.MustRegister("card", Card{})
	registry.MustRegister("panel", &components.DeclaredComponent{TemplatePath: "panel.html"})
	registry.MustRegister("greeting", &components.DeclaredComponent{
		TemplatePath: "greeting.html",
		PropDecl: components.Props{
			Keyword:      []components.Prop{components.Optional("name", "stranger")},
			NonShadowing: []string{"user"},
		},
	})
	registry.MustRegister("strict", &components.DeclaredComponent{
		TemplatePath: "strict.html",
		PropDecl: components.Props{
			Keyword: []components.Prop{components.Required("x")},
		},
	})
	engine, err := components.NewEngine(templates, registry, opts...)
	if err != nil {
		t.Fatalf("error creating engine: %s", err)
	}
	return engine
}

var testTemplates = staticFS{
	"card.html":     `<h1>{{ title }}</h1><h2>{{ subtitle }}</h2>`,
	"panel.html":    `[{% slot "a" %}default a{% endslot %}][{% slot "b" %}default b{% endslot %}]`,
	"greeting.html": `{{ name }}/{{ user }}`,
	"strict.html":   `{{ x }}`,
}

func withTemplates(extra map[string]string) staticFS {
	result := staticFS{}
	for name, src := range testTemplates {
		result[name] = src
	}
	for name, src := range extra {
		result[name] = src
	}
	return result
}

func TestEngineRender(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		page     string
		data     map[string]any
		expected string
	}{
		"positional": {
			page:     `{% component "card" "Hello" %}`,
			expected: `<h1>Hello</h1><h2>Untitled</h2>`,
		},
		"positional-from-variables": {
			page:     `{% component "card" heading|upper "World" %}`,
			data:     map[string]any{"heading": "hello"},
			expected: `<h1>HELLO</h1><h2>World</h2>`,
		},
		"keyword": {
			page:     `{% component "card" title="Hello" subtitle="World" %}`,
			expected: `<h1>Hello</h1><h2>World</h2>`,
		},
		"name-keyword": {
			page:     `{% component name="card" title="Hello" %}`,
			expected: `<h1>Hello</h1><h2>Untitled</h2>`,
		},
		"slots-a-b-filled-a-c": {
			page:     `{% component_block "panel" %}{% slot "a" %}custom a{% endslot %}{% slot "c" %}custom c{% endslot %}{% endcomponent_block %}`,
			expected: `[custom a][default b]`,
		},
		"slot-filled-twice": {
			page:     `{% component_block "panel" %}{% slot "b" %}1{% endslot %}ignored{% slot "b" %}2{% endslot %}{% endcomponent_block %}`,
			expected: `[default a][12]`,
		},
		"no-slots-filled": {
			page:     `{% component_block "panel" %}{% endcomponent_block %}`,
			expected: `[default a][default b]`,
		},
		"nested-blocks": {
			page:     `{% component_block "panel" %}{% slot "a" %}{% component_block "panel" %}{% slot "b" %}inner{% endslot %}{% endcomponent_block %}{% endslot %}{% endcomponent_block %}`,
			expected: `[[default a][inner]][default b]`,
		},
		"slot-content-sees-caller": {
			page:     `{% component_block "panel" %}{% slot "a" %}{{ user }}{% endslot %}{% endcomponent_block %}`,
			data:     map[string]any{"user": "Visitor"},
			expected: `[Visitor][default b]`,
		},
		"inherits-caller-scope": {
			page:     `{% component "greeting" %}`,
			data:     map[string]any{"user": "Visitor"},
			expected: `stranger/Visitor`,
		},
		"only-hides-caller-scope": {
			page:     `{% component "greeting" only %}`,
			data:     map[string]any{"user": "Visitor"},
			expected: `stranger/`,
		},
		"only-keeps-arguments": {
			page:     `{% component "greeting" name="Ada" user="Lovelace" only %}`,
			data:     map[string]any{"user": "Visitor"},
			expected: `Ada/Lovelace`,
		},
		"component-context-reverted": {
			page:     `{{ title }}|{% component "card" "Inner" %}|{{ title }}`,
			data:     map[string]any{"title": "Outer"},
			expected: `Outer|<h1>Inner</h1><h2>Untitled</h2>|Outer`,
		},
		"inside-loop": {
			page:     `{% for item in items %}{% component "card" item %}{% endfor %}`,
			data:     map[string]any{"items": []string{"a", "b"}},
			expected: `<h1>a</h1><h2>Untitled</h2><h1>b</h1><h2>Untitled</h2>`,
		},
		"loop-variable-visible-inside": {
			page:     `{% for user in users %}{% component "greeting" %};{% endfor %}`,
			data:     map[string]any{"users": []string{"a", "b"}},
			expected: `stranger/a;stranger/b;`,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			engine := newTestEngine(t, withTemplates(map[string]string{"page.html": test.page}))
			var out bytes.Buffer
			if err := engine.Render(context.Background(), &out, "page.html", test.data); err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if got := out.String(); got != test.expected {
				t.Errorf("expected %q, got %q", test.expected, got)
			}
		})
	}
}

func TestEngineRenderErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		page string
		err  error
	}{
		"unregistered": {
			page: `{% component "imaginary" %}`,
			err:  components.ErrNotRegistered,
		},
		"too-many-arguments": {
			page: `{% component "card" "a" "b" "c" %}`,
			err:  components.ErrTooManyArguments,
		},
		"duplicate-argument": {
			page: `{% component "card" "a" title="b" %}`,
			err:  components.ErrDuplicateArgument,
		},
		"missing-keyword": {
			page: `{% component "strict" %}`,
			err:  components.ErrMissingArgument,
		},
		"unexpected-keyword": {
			page: `{% component "card" "a" color="red" %}`,
			err:  components.ErrUnexpectedArgument,
		},
		"nested-failure": {
			page: `{% component_block "panel" %}{% slot "a" %}{% component "strict" %}{% endslot %}{% endcomponent_block %}`,
			err:  components.ErrMissingArgument,
		},
		"no-name": {
			page: `{% component %}`,
		},
		"unquoted-name": {
			page: `{% component card %}`,
		},
		"positional-after-keyword": {
			page: `{% component "card" title="a" "b" %}`,
		},
		"repeated-keyword": {
			page: `{% component "card" title="a" title="b" %}`,
		},
		"slot-without-name": {
			page: `{% component_block "panel" %}{% slot %}x{% endslot %}{% endcomponent_block %}`,
		},
		"unclosed-block": {
			page: `{% component_block "panel" %}{% slot "a" %}x{% endslot %}`,
		},
		"missing-template": {
			page: `{% include "nothing.html" %}`,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			engine := newTestEngine(t, withTemplates(map[string]string{"page.html": test.page}))
			var out bytes.Buffer
			err := engine.Render(context.Background(), &out, "page.html", nil)
			if err == nil {
				t.Fatalf("expected an error, got output %q", out.String())
			}
			if test.err != nil && !errors.Is(err, test.err) {
				t.Errorf("expected error %v, got %v", test.err, err)
			}
			if out.Len() > 0 {
				t.Errorf("expected no output on error, got %q", out.String())
			}
		})
	}
}

func TestEngineDependencyTracking(t *testing.T) {
	t.Parallel()

	page := withTemplates(map[string]string{"page.html": `{% component "card" "Hello" %}`})

	// without a dependency set, debug mode refuses to render components
	// with media
	engine := newTestEngine(t, page, components.WithDebug(true))
	err := engine.Render(context.Background(), &bytes.Buffer{}, "page.html", nil)
	if !errors.Is(err, components.ErrNoDependencyTracker) {
		t.Errorf("expected %v in debug mode, got %v", components.ErrNoDependencyTracker, err)
	}

	// outside of debug mode the media is silently left out
	engine = newTestEngine(t, page)
	if err := engine.Render(context.Background(), &bytes.Buffer{}, "page.html", nil); err != nil {
		t.Errorf("unexpected error outside debug mode: %s", err)
	}

	// with a dependency set, every component rendered is recorded
	deps := components.NewDependencies()
	ctx := components.WithDependencies(context.Background(), deps)
	engine = newTestEngine(t, withTemplates(map[string]string{
		"page.html": `{% component "card" "a" %}{% component_block "panel" %}{% slot "a" %}{% component "card" "b" %}{% endslot %}{% endcomponent_block %}`,
	}), components.WithDebug(true))
	if err := engine.Render(ctx, &bytes.Buffer{}, "page.html", nil); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got, expected := strings.Join(deps.Names(), ","), "card,panel"; got != expected {
		t.Errorf("expected dependencies %q, got %q", expected, got)
	}
}

func TestEngineRenderDocumentLeavesPlaceholdersForOwner(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, withTemplates(map[string]string{
		"page.html": `{% component_css_dependencies %}{% component "card" "a" %}`,
	}))
	deps := components.NewDependencies()
	ctx := components.WithDependencies(context.Background(), deps)
	var out bytes.Buffer
	if err := engine.RenderDocument(ctx, &out, "page.html", nil); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	expected := components.CSSPlaceholder + `<h1>a</h1><h2>Untitled</h2>`
	if got := out.String(); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestEngineValidate(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, withTemplates(map[string]string{
		"good.html":   `{% component "card" "a" %}{% component_block "panel" %}{% endcomponent_block %}`,
		"bad.html":    `{% component "card" "a" %}{% component "imaginary" %}`,
		"broken.html": `{% component_block "panel" %}`,
	}))
	if err := engine.Validate("good.html"); err != nil {
		t.Errorf("unexpected error validating good.html: %s", err)
	}
	if err := engine.Validate("bad.html"); !errors.Is(err, components.ErrNotRegistered) {
		t.Errorf("expected %v validating bad.html, got %v", components.ErrNotRegistered, err)
	}
	if err := engine.Validate("broken.html"); err == nil {
		t.Error("expected an error validating broken.html")
	}
	if err := engine.Validate("nothing.html"); err == nil {
		t.Error("expected an error validating a template that doesn't exist")
	}
}

func TestEngineCachesTemplates(t *testing.T) {
	t.Parallel()

	for _, debug := range []bool{false, true} {
		templateFS := fstest.MapFS{
			"panel.html": {Data: []byte(`[{% slot "a" %}a{% endslot %}]`)},
			"page.html":  {Data: []byte(`{% component_block "panel" %}{% slot "a" %}filled{% endslot %}{% endcomponent_block %}`)},
		}
		registry := components.NewRegistry()
		registry.MustRegister("panel", &components.DeclaredComponent{TemplatePath: "panel.html"})
		engine, err := components.NewEngine(templateFS, registry, components.WithDebug(debug))
		if err != nil {
			t.Fatalf("error creating engine: %s", err)
		}

		var out bytes.Buffer
		if err := engine.Render(context.Background(), &out, "page.html", nil); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if got := out.String(); got != "[filled]" {
			t.Fatalf("expected %q, got %q", "[filled]", got)
		}

		templateFS["panel.html"].Data = []byte(`({% slot "a" %}a{% endslot %})`)
		out.Reset()
		if err := engine.Render(context.Background(), &out, "page.html", nil); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		expected := "[filled]"
		if debug {
			expected = "(filled)"
		}
		if got := out.String(); got != expected {
			t.Errorf("debug=%v: expected %q after modifying the template, got %q", debug, expected, got)
		}
	}
}

func TestEngineWithTracerProvider(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, withTemplates(map[string]string{
		"page.html": `{% component "card" "Hello" %}`,
	}), components.WithTracerProvider(noop.NewTracerProvider()))
	var out bytes.Buffer
	if err := engine.Render(context.Background(), &out, "page.html", nil); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got, expected := out.String(), `<h1>Hello</h1><h2>Untitled</h2>`; got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

// Badge builds its own context instead of declaring props.
type Badge struct{}

func (Badge) Template(_ context.Context, _ map[string]any) string {
	return "badge.html"
}

func (Badge) BuildContext(_ context.Context, args []any, kwargs map[string]any) (map[string]any, error) {
	if len(args) != 1 {
		return nil, components.ErrMissingArgument
	}
	return map[string]any{"label": args[0], "extra": len(kwargs)}, nil
}

func TestEngineContextBuilder(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, withTemplates(map[string]string{
		"badge.html": `<span>{{ label }}:{{ extra }}</span>`,
		"page.html":  `{% component "badge" "new" a=1 b=2 %}`,
		"empty.html": `{% component "badge" %}`,
	}))
	engine.Registry().MustRegister("badge", Badge{})

	var out bytes.Buffer
	if err := engine.Render(context.Background(), &out, "page.html", nil); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got := out.String(); got != "<span>new:2</span>" {
		t.Errorf("expected %q, got %q", "<span>new:2</span>", got)
	}

	out.Reset()
	err := engine.Render(context.Background(), &out, "empty.html", nil)
	if !errors.Is(err, components.ErrMissingArgument) {
		t.Errorf("expected %v, got %v", components.ErrMissingArgument, err)
	}
}

func TestEngineRenderSlotSyntax(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		templates map[string]string
		expected  string
	}{
		"identifier-slot-names": {
			templates: map[string]string{
				"box.html":  `[{% slot body %}default{% endslot %}]`,
				"page.html": `{% component_block "box" %}{% slot body %}filled{% endslot %}{% endcomponent_block %}`,
			},
			expected: `[filled]`,
		},
		"identifier-fill-quoted-declaration": {
			templates: map[string]string{
				"box.html":  `[{% slot "body" %}default{% endslot %}]`,
				"page.html": `{% component_block "box" %}{% slot body %}filled{% endslot %}{% endcomponent_block %}`,
			},
			expected: `[filled]`,
		},
		"commented-out-component": {
			templates: map[string]string{
				"box.html":  `[{% slot "body" %}default{% endslot %}]`,
				"page.html": `ok{# {% component "retired" %} #}`,
			},
			expected: `ok`,
		},
		"slot-inside-if": {
			templates: map[string]string{
				"box.html":  `{% if 1 %}[{% slot "body" %}default{% endslot %}]{% endif %}`,
				"page.html": `{% component_block "box" %}{% slot "body" %}filled{% endslot %}{% endcomponent_block %}`,
			},
			expected: `[filled]`,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			registry := components.NewRegistry()
			registry.MustRegister("box", &components.DeclaredComponent{TemplatePath: "box.html"})
			engine, err := components.NewEngine(staticFS(test.templates), registry)
			if err != nil {
				t.Fatalf("error creating engine: %s", err)
			}
			var out bytes.Buffer
			if err := engine.Render(context.Background(), &out, "page.html", nil); err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if got := out.String(); got != test.expected {
				t.Errorf("expected %q, got %q", test.expected, got)
			}
		})
	}
}
