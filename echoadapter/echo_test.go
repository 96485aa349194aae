package echoadapter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/labstack/echo/v4"

	"impractical.co/components"
)

func newEngine(t *testing.T) *components.Engine {
	t.Helper()

	templates := fstest.MapFS{
		"badge.html": {Data: []byte(`<span>{{ label }}</span>`)},
		"page.html":  {Data: []byte(`{% component_css_dependencies %}{% component "badge" label=user %}`)},
	}
	registry := components.NewRegistry()
	registry.MustRegister("badge", &components.DeclaredComponent{
		TemplatePath: "badge.html",
		PropDecl: components.Props{
			Keyword: []components.Prop{components.Required("label")},
		},
		CSS: []components.CSSLink{{Href: "badge.css"}},
	})
	engine, err := components.NewEngine(templates, registry, components.WithDebug(true))
	if err != nil {
		t.Fatalf("error creating engine: %s", err)
	}
	return engine
}

func TestRenderBehindMiddleware(t *testing.T) {
	e := echo.New()
	e.Renderer = Renderer{Engine: newEngine(t)}
	e.Use(Middleware(e.Renderer.(Renderer).Engine))
	e.GET("/", func(c echo.Context) error {
		return c.Render(http.StatusOK, "page.html", echo.Map{"user": "Visitor"})
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	expected := `<link href="/static/badge.css" media="all" rel="stylesheet"><span>Visitor</span>`
	if got := rec.Body.String(); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestRenderWithoutMiddleware(t *testing.T) {
	e := echo.New()
	e.Renderer = Renderer{Engine: newEngine(t)}
	e.GET("/", func(c echo.Context) error {
		return c.Render(http.StatusOK, "page.html", map[string]any{"user": "Visitor"})
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	expected := `<link href="/static/badge.css" media="all" rel="stylesheet"><span>Visitor</span>`
	if got := rec.Body.String(); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestRenderRejectsOtherData(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	err := Renderer{Engine: newEngine(t)}.Render(httptest.NewRecorder().Body, "page.html", struct{}{}, c)
	if err == nil {
		t.Error("expected an error rendering with struct data")
	}
}
