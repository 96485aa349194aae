package components

import (
	"context"
	"errors"
	"strings"
	"sync"
)

type dependenciesCtxKey struct{}

// Dependencies is the set of Components rendered while producing a single
// response. Its media replaces the placeholders the component_dependencies
// tags leave in the output.
//
// Engine.Middleware creates one per request; use WithDependencies to supply
// one when rendering outside of it.
type Dependencies struct {
	mu         sync.Mutex
	names      []string
	components map[string]Component
}

// NewDependencies returns an empty Dependencies set.
func NewDependencies() *Dependencies {
	return &Dependencies{
		components: map[string]Component{},
	}
}

// WithDependencies returns a copy of ctx that carries deps. Engine.Render
// records every Component it renders in the Dependencies it finds in its
// context.
func WithDependencies(ctx context.Context, deps *Dependencies) context.Context {
	return context.WithValue(ctx, dependenciesCtxKey{}, deps)
}

// DependenciesFromContext returns the Dependencies carried by ctx, or nil if
// it doesn't carry any.
func DependenciesFromContext(ctx context.Context) *Dependencies {
	deps, ok := ctx.Value(dependenciesCtxKey{}).(*Dependencies)
	if !ok {
		return nil
	}
	return deps
}

// Add records that the Component registered under name was rendered. Adding
// the same name again has no effect.
func (d *Dependencies) Add(name string, component Component) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.components[name]; ok {
		return
	}
	d.components[name] = component
	d.names = append(d.names, name)
}

// Len returns the number of distinct Components recorded.
func (d *Dependencies) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.names)
}

// Names returns the names of the Components recorded, in the order they were
// first rendered.
func (d *Dependencies) Names() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.names...)
}

func (d *Dependencies) list() []Component {
	d.mu.Lock()
	defer d.mu.Unlock()
	results := make([]Component, 0, len(d.names))
	for _, name := range d.names {
		results = append(results, d.components[name])
	}
	return results
}

// Media returns the combined CSS and JavaScript markup of every Component
// recorded, each resource appearing once. An error wrapping ErrResourceCycle
// means the Components disagree about the order of some resources; the markup
// returned still includes all of them.
func (d *Dependencies) Media(ctx context.Context, cfg Config) (css, js string, err error) {
	cssGraph, jsGraph := newGraph(), newGraph()
	for _, component := range d.list() {
		links, blocks := cssResources(ctx, component)
		cssGraph.addChain(links)
		cssGraph.addChain(blocks)
		links, blocks = jsResources(ctx, component)
		jsGraph.addChain(links)
		jsGraph.addChain(blocks)
	}
	cssNodes, cssErr := cssGraph.walk(ctx)
	jsNodes, jsErr := jsGraph.walk(ctx)
	return renderResources(cfg, cssNodes), renderResources(cfg, jsNodes), errors.Join(cssErr, jsErr)
}

func renderResources(cfg Config, resources []resource) string {
	rendered := make([]string, 0, len(resources))
	for _, res := range resources {
		rendered = append(rendered, res.render(cfg))
	}
	return strings.Join(rendered, "\n")
}
