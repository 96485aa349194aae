// Package echoadapter wires a components.Engine into the Echo web framework.
//
//	e := echo.New()
//	e.Renderer = echoadapter.Renderer{Engine: engine}
//	e.Use(echoadapter.Middleware(engine))
//
//	e.GET("/", func(c echo.Context) error {
//		return c.Render(http.StatusOK, "home.html", map[string]any{"user": "Visitor"})
//	})
package echoadapter

import (
	"fmt"
	"io"

	"github.com/labstack/echo/v4"

	"impractical.co/components"
)

// Middleware returns engine's dependency middleware as Echo middleware, so
// every component rendered while handling a request contributes its media to
// the response.
func Middleware(engine *components.Engine) echo.MiddlewareFunc {
	return echo.WrapMiddleware(engine.Middleware)
}

// Renderer is an echo.Renderer that renders templates with an Engine.
type Renderer struct {
	Engine *components.Engine
}

var _ echo.Renderer = Renderer{}

// Render renders the named template with data as its context. data must be
// nil or a map[string]any.
func (r Renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	var values map[string]any
	switch data := data.(type) {
	case nil:
	case map[string]any:
		values = data
	case echo.Map:
		values = data
	default:
		return fmt.Errorf("can't render %q with %T, need a map[string]any", name, data)
	}
	return r.Engine.RenderDocument(c.Request().Context(), w, name, values)
}
