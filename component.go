package components

import (
	"context"
	"fmt"
)

// Component is a reusable piece of template that can be invoked from other
// templates with the component and component_block tags.
//
// A single Component value is registered once and shared by every render that
// uses it, potentially from many goroutines at the same time, so its methods
// shouldn't mutate it.
type Component interface {
	// Template returns the path, within the Engine's fs.FS, of the
	// template the Component renders. data is the Component's resolved
	// context, so a Component can choose between templates based on its
	// arguments.
	Template(ctx context.Context, data map[string]any) string
}

// PropsDeclarer is an interface that Components can fulfill to declare the
// positional and keyword arguments they accept. A Component that doesn't
// implement PropsDeclarer or ContextBuilder accepts no arguments at all.
//
// The declaration is validated when the Component is registered.
type PropsDeclarer interface {
	Props() Props
}

// ContextBuilder is an interface that Components can fulfill to take over
// building their template context from the arguments they were invoked with.
// Implementations that declare Props usually call Props.Bind and then add to
// or modify the result.
type ContextBuilder interface {
	BuildContext(ctx context.Context, args []any, kwargs map[string]any) (map[string]any, error)
}

// registration is a Component as it's held by a Registry, along with the
// information derived from it at registration time.
type registration struct {
	name      string
	component Component
	props     Props
}

func newRegistration(name string, component Component) (*registration, error) {
	reg := &registration{
		name:      name,
		component: component,
	}
	if declarer, ok := component.(PropsDeclarer); ok {
		reg.props = declarer.Props()
		if err := reg.props.Validate(); err != nil {
			return nil, fmt.Errorf("invalid props for component %q (%T): %w", name, component, err)
		}
	}
	return reg, nil
}

// context resolves the arguments the component was invoked with into its
// template context.
func (reg *registration) context(ctx context.Context, args []any, kwargs map[string]any) (map[string]any, error) {
	var (
		result map[string]any
		err    error
	)
	if builder, ok := reg.component.(ContextBuilder); ok {
		result, err = builder.BuildContext(ctx, args, kwargs)
	} else {
		result, err = reg.props.Bind(args, kwargs)
	}
	if err != nil {
		return nil, fmt.Errorf("error building context for component %q: %w", reg.name, err)
	}
	if result == nil {
		result = map[string]any{}
	}
	return result, nil
}

// hasMedia reports whether the component declares any CSS or JavaScript.
func (reg *registration) hasMedia(ctx context.Context) bool {
	if linker, ok := reg.component.(CSSLinker); ok && len(linker.LinkCSS(ctx)) > 0 {
		return true
	}
	if embedder, ok := reg.component.(CSSEmbedder); ok && len(embedder.EmbedCSS(ctx)) > 0 {
		return true
	}
	if linker, ok := reg.component.(JSLinker); ok && len(linker.LinkJS(ctx)) > 0 {
		return true
	}
	if embedder, ok := reg.component.(JSEmbedder); ok && len(embedder.EmbedJS(ctx)) > 0 {
		return true
	}
	return false
}

// instance is a single invocation of a component: the slot content resolved
// for it and a snapshot of the context it was invoked from.
type instance struct {
	slots        slotPlan
	outerContext map[string]any
}
