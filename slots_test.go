package components

import (
	"slices"
	"testing"

	"github.com/flosch/pongo2/v6"
)

func TestOutlineTemplate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		source     string
		slots      []string
		components []string
	}{
		"empty": {},
		"slots": {
			source: `<div>{% slot "header" %}H{% endslot %}{%- slot 'body' -%}B{% endslot %}{% slot "header" %}again{% endslot %}</div>`,
			slots:  []string{"header", "body"},
		},
		"components": {
			source:     `{% component "card" "title" %}{% component name="badge" %}{% component "card" %}`,
			components: []string{"card", "badge"},
		},
		"nested-slots-fill-the-block": {
			source: `{% slot "outer" %}{% endslot %}
{% component_block "panel" %}
	{% slot "header" %}{% component "card" "x" %}{% endslot %}
{% endcomponent_block %}
{% slot "footer" %}{% endslot %}`,
			slots:      []string{"outer", "footer"},
			components: []string{"panel", "card"},
		},
		"verbatim-and-comments": {
			source: `{% verbatim %}{% slot "hidden" %}{% endverbatim %}
{% comment %}{% component "hidden" %}{% endcomment %}
{% slot "shown" %}{% endslot %}`,
			slots: []string{"shown"},
		},
		"identifier-slot-names": {
			source: `[{% slot body %}default{% endslot %}][{%- slot footer -%}{% endslot %}]`,
			slots:  []string{"body", "footer"},
		},
		"inline-comments": {
			source: `ok{# {% component "retired" %} #}{# {% slot "gone" %}
{% endslot %} #}{% slot "kept" %}{% endslot %}`,
			slots: []string{"kept"},
		},
		"slots-inside-control-flow": {
			source: `{% if show %}{% slot "inner" %}{% endslot %}{% endif %}{% for item in items %}{% slot "row" %}{{ item }}{% endslot %}{% endfor %}`,
			slots:  []string{"inner", "row"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			outline := outlineTemplate(test.source)
			if !slices.Equal(outline.slots, test.slots) {
				t.Errorf("expected slots %v, got %v", test.slots, outline.slots)
			}
			if !slices.Equal(outline.components, test.components) {
				t.Errorf("expected components %v, got %v", test.components, outline.components)
			}
		})
	}
}

func TestReconcile(t *testing.T) {
	t.Parallel()

	fillA := &pongo2.NodeWrapper{}
	fillC := &pongo2.NodeWrapper{}
	outline := templateOutline{slots: []string{"a", "b"}}

	plan, unexpected := reconcile(outline, slotFills{
		"a": {fillA},
		"c": {fillC},
	})

	if len(plan) != 2 {
		t.Fatalf("expected a plan for 2 slots, got %d", len(plan))
	}
	if got := plan["a"]; len(got) != 1 || got[0] != fillA {
		t.Errorf("expected slot a to use the call site's content, got %v", got)
	}
	if got, ok := plan["b"]; !ok || got != nil {
		t.Errorf("expected slot b to fall back to its default, got %v (present: %v)", got, ok)
	}
	if _, ok := plan["c"]; ok {
		t.Error("expected slot c to be dropped")
	}
	if !slices.Equal(unexpected, []string{"c"}) {
		t.Errorf("expected unexpected slots [c], got %v", unexpected)
	}
}
