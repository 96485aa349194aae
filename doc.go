// Package components adds reusable components to pongo2 templates.
//
// A Component is a Go value that names a template and, optionally, declares
// the arguments it accepts (PropsDeclarer) and the CSS and JavaScript it needs
// (CSSLinker, CSSEmbedder, JSLinker, JSEmbedder). Components are registered by
// name in a Registry, and the Registry is handed to an Engine, which renders
// templates from an fs.FS.
//
// Templates invoke Components with the component tag, passing positional and
// keyword arguments:
//
//	{% component "card" "Hello" subtitle=page.subtitle %}
//
// The component_block tag does the same, but can also fill the slots the
// Component's template declares:
//
//	{% component_block "panel" %}
//		{% slot "header" %}Welcome back, {{ user }}{% endslot %}
//	{% endcomponent_block %}
//
// Slots the Component's template declares but the call site doesn't fill
// render their own default content. Slots the call site fills that the
// template doesn't declare are dropped; in debug mode a warning is logged.
//
// A Component's template sees the variables of the template that invoked it,
// with its own arguments layered on top. Ending either tag with "only" hides
// the caller's variables, so the Component sees nothing but its arguments.
//
// The component_css_dependencies, component_js_dependencies, and
// component_dependencies tags leave placeholders in the output. Once the
// response is rendered, Engine.Middleware (or Engine.RenderDocument, outside of
// an HTTP handler) replaces the first placeholder of each kind with the media
// of every Component rendered, each resource appearing once, and removes the
// rest.
package components
