package components

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/flosch/pongo2/v6"
	"github.com/oxtoacart/bpool"
	"go.opentelemetry.io/otel/trace"
)

// Engine renders templates that use the component layer's tags. It holds the
// Registry Components are looked up in, the fs.FS templates are loaded from,
// and the Config that controls rendering. An Engine must be instantiated
// through NewEngine, its empty value is not usable.
//
// An Engine can safely be used by multiple goroutines.
type Engine struct {
	registry *Registry
	fsys     fs.FS
	set      *pongo2.TemplateSet
	cfg      Config
	outlines *outlineCache
	buffers  *bpool.BufferPool
	metrics  *metrics
	tracer   trace.Tracer
}

// NewEngine returns an Engine that loads templates from fsys and resolves
// component names against registry.
func NewEngine(fsys fs.FS, registry *Registry, opts ...Option) (*Engine, error) {
	if registry == nil {
		return nil, errors.New("can't create an engine without a registry")
	}
	engine := &Engine{
		registry: registry,
		fsys:     fsys,
		cfg:      DefaultConfig(),
		outlines: newOutlineCache(),
		buffers:  bpool.NewBufferPool(64),
		tracer:   defaultTracer(),
	}
	for _, opt := range opts {
		if err := opt(engine); err != nil {
			return nil, err
		}
	}
	engine.set = pongo2.NewSet("components", fsLoader{fsys: fsys})
	engine.set.Debug = engine.cfg.Debug
	return engine, nil
}

// Registry returns the Registry the Engine resolves component names against.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Config returns the Engine's Config.
func (e *Engine) Config() Config {
	return e.cfg
}

// Globals returns the variables every template the Engine renders can see.
// Set them before rendering anything.
func (e *Engine) Globals() pongo2.Context {
	return e.set.Globals
}

// fsLoader is a pongo2.TemplateLoader that reads templates from an fs.FS.
// Template names are always relative to the root of the fs.FS.
type fsLoader struct {
	fsys fs.FS
}

func (l fsLoader) Abs(_, name string) string {
	return path.Clean(strings.TrimPrefix(name, "/"))
}

func (l fsLoader) Get(name string) (io.Reader, error) {
	contents, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(contents), nil
}

// outline returns the outline of the named template, scanning its source if
// it hasn't been scanned yet. In debug mode the source is scanned every time,
// so edits show up without restarting.
func (e *Engine) outline(name string) (templateOutline, error) {
	name = fsLoader{}.Abs("", name)
	if !e.cfg.Debug {
		if outline, ok := e.outlines.get(name); ok {
			return outline, nil
		}
	}
	contents, err := fs.ReadFile(e.fsys, name)
	if err != nil {
		return templateOutline{}, fmt.Errorf("error reading template %q: %w", name, err)
	}
	outline := outlineTemplate(string(contents))
	e.outlines.set(name, outline)
	return outline, nil
}

// template loads the named template and its outline.
func (e *Engine) template(name string) (*pongo2.Template, templateOutline, error) {
	outline, err := e.outline(name)
	if err != nil {
		return nil, templateOutline{}, err
	}
	tpl, err := e.set.FromCache(name)
	if err != nil {
		return nil, templateOutline{}, fmt.Errorf("error parsing template %q: %w", name, err)
	}
	return tpl, outline, nil
}

// Validate parses the named template and checks that every component it
// invokes by name is registered, without rendering anything. The templates of
// the Components it invokes aren't checked; Validate them separately.
func (e *Engine) Validate(name string) error {
	_, outline, err := e.template(name)
	if err != nil {
		return err
	}
	var errs []error
	for _, component := range outline.components {
		if !e.registry.Registered(component) {
			errs = append(errs, fmt.Errorf("template %q: %w: %q", name, ErrNotRegistered, component))
		}
	}
	return errors.Join(errs...)
}
