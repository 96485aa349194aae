package components

import (
	"context"
	"fmt"
	"io"
	"maps"
	"net/http"
	"time"

	"github.com/flosch/pongo2/v6"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// renderState is what component tags need from the render they're part of.
// A copy is made for every component rendered, so spans nest, but every copy
// shares the first error recorded.
type renderState struct {
	ctx    context.Context
	engine *Engine
	deps   *Dependencies
	first  *error
}

func (s *renderState) child(ctx context.Context) *renderState {
	child := *s
	child.ctx = ctx
	return &child
}

// fail records err as the render's error if nothing failed before it. pongo2
// wraps tag errors in its own type, so the first error is kept here to be
// returned from Render with its identity intact.
func (s *renderState) fail(err error) error {
	if *s.first == nil {
		*s.first = err
	}
	return err
}

// Render renders the named template to w, with data as its context.
// Components rendered along the way are recorded in the Dependencies carried
// by ctx, if any; see WithDependencies. Placeholders are left in the output.
//
// Nothing is written to w if rendering fails.
func (e *Engine) Render(ctx context.Context, w io.Writer, name string, data map[string]any) error {
	ctx, span := e.tracer.Start(ctx, "components.Render", trace.WithAttributes(
		attribute.String("components.template", name),
	))
	err := e.render(ctx, w, name, data)
	endSpan(span, err)
	return err
}

func (e *Engine) render(ctx context.Context, w io.Writer, name string, data map[string]any) error {
	if err := e.Validate(name); err != nil {
		return err
	}
	tpl, err := e.set.FromCache(name)
	if err != nil {
		return fmt.Errorf("error parsing template %q: %w", name, err)
	}
	var first error
	tplCtx := pongo2.Context{}
	maps.Copy(tplCtx, data)
	tplCtx[renderStateKey] = &renderState{
		ctx:    ctx,
		engine: e,
		deps:   DependenciesFromContext(ctx),
		first:  &first,
	}
	if err := tpl.ExecuteWriter(tplCtx, w); err != nil {
		if first != nil {
			return fmt.Errorf("error executing template %q: %w", name, first)
		}
		return fmt.Errorf("error executing template %q: %w", name, err)
	}
	return nil
}

// RenderDocument renders the named template like Render does, then replaces
// the placeholders in the output with the media of the Components it
// rendered.
//
// If ctx already carries Dependencies, RenderDocument leaves the placeholders
// for whoever supplied them, usually Engine.Middleware, because more
// Components may still be rendered into the same response.
func (e *Engine) RenderDocument(ctx context.Context, w io.Writer, name string, data map[string]any) error {
	if DependenciesFromContext(ctx) != nil {
		return e.Render(ctx, w, name, data)
	}
	deps := NewDependencies()
	ctx = WithDependencies(ctx, deps)

	buf := e.buffers.Get()
	defer e.buffers.Put(buf)
	if err := e.Render(ctx, buf, name, data); err != nil {
		return err
	}
	if _, err := w.Write(e.processDependencies(ctx, deps, buf.Bytes())); err != nil {
		return fmt.Errorf("error writing template %q: %w", name, err)
	}
	return nil
}

// processDependencies replaces the placeholders in content with the media of
// the Components in deps. Components that disagree about the order of their
// resources are logged, and the resources are still included.
func (e *Engine) processDependencies(ctx context.Context, deps *Dependencies, content []byte) []byte {
	css, js, err := deps.Media(ctx, e.cfg)
	if err != nil {
		e.metrics.observeResourceCycle()
		logger(ctx).WarnContext(ctx, "error ordering component media", "error", err)
	}
	result, replaced := replacePlaceholders(content, []byte(css), []byte(js))
	e.metrics.observePlaceholders(replaced)
	return result
}

// ServeTemplate renders the named template as the response to r. If it can't,
// a server error page is written instead: the Engine's error template if it
// has one, a simple text message if it doesn't or if that fails too.
func (e *Engine) ServeTemplate(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	ctx := r.Context()

	buf := e.buffers.Get()
	defer e.buffers.Put(buf)

	err := e.RenderDocument(ctx, buf, name, data)
	if err == nil {
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
		}
		if _, err := buf.WriteTo(w); err != nil {
			logger(ctx).ErrorContext(ctx, "error writing response", "template", name, "error", err)
		}
		return
	}

	logger(ctx).ErrorContext(ctx, "error rendering template", "template", name, "error", err)

	if e.cfg.ErrorTemplate != "" {
		buf.Reset()
		err = e.RenderDocument(ctx, buf, e.cfg.ErrorTemplate, map[string]any{
			"template": name,
			"error":    err.Error(),
		})
		if err == nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusInternalServerError)
			if _, err := buf.WriteTo(w); err != nil {
				logger(ctx).ErrorContext(ctx, "error writing server error page", "error", err)
			}
			return
		}
		logger(ctx).ErrorContext(ctx, "error rendering server error page", "template", e.cfg.ErrorTemplate, "error", err)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	if _, err := w.Write([]byte("Server error.")); err != nil {
		logger(ctx).ErrorContext(ctx, "error writing server error message", "error", err)
	}
}

// renderComponent renders a component tag: it binds the tag's arguments,
// resolves its slots against the component's template, and executes that
// template in a scope built from the calling context.
func (e *Engine) renderComponent(state *renderState, tagCtx *pongo2.ExecutionContext, node *tagComponentNode, w io.Writer) (err error) {
	ctx, span := e.tracer.Start(state.ctx, "components.Component", trace.WithAttributes(
		attribute.String("components.component", node.name),
		attribute.Bool("components.isolated", node.isolated),
	))
	start := time.Now()
	defer func() {
		e.metrics.observeRender(node.name, start, err)
		endSpan(span, err)
	}()

	reg, err := e.registry.lookup(node.name)
	if err != nil {
		return err
	}
	if state.deps != nil {
		state.deps.Add(reg.name, reg.component)
	} else if e.cfg.Debug && reg.hasMedia(ctx) {
		return fmt.Errorf("%w: component %q", ErrNoDependencyTracker, reg.name)
	}

	args, kwargs, err := node.resolve(tagCtx)
	if err != nil {
		return fmt.Errorf("error evaluating arguments to component %q: %w", reg.name, err)
	}
	data, err := reg.context(ctx, args, kwargs)
	if err != nil {
		return err
	}

	name := reg.component.Template(ctx, data)
	if name == "" {
		return fmt.Errorf("%w: component %q", ErrNoTemplate, reg.name)
	}
	span.SetAttributes(attribute.String("components.template", name))
	tpl, outline, err := e.template(name)
	if err != nil {
		return fmt.Errorf("error loading template for component %q: %w", reg.name, err)
	}
	plan, unexpected := reconcile(outline, node.fills)
	if len(unexpected) > 0 {
		e.metrics.observeUnexpectedSlots(reg.name, len(unexpected))
		if e.cfg.Debug {
			warnUnexpectedSlots(ctx, reg.name, name, unexpected)
		}
	}

	inst := instance{
		slots:        plan,
		outerContext: flattenContext(tagCtx),
	}
	scope := inst.scope(node.isolated)
	pop := scope.Push(data)
	defer pop()
	scope.Set(slotPlanKey, inst.slots)
	scope.Set(renderStateKey, state.child(ctx))

	if err := tpl.ExecuteWriter(pongo2.Context(scope.Flatten()), w); err != nil {
		if *state.first != nil {
			return *state.first
		}
		return fmt.Errorf("error executing template %q for component %q: %w", name, reg.name, err)
	}
	return nil
}

// scope returns the Scope the instance's template is rendered in: the
// calling context, or nothing but the render's bookkeeping if the component
// was invoked with "only".
func (inst instance) scope(isolated bool) *Scope {
	scope := NewScope(inst.outerContext)
	if isolated {
		scope = scope.Isolated(renderStateKey)
	}
	return scope
}
