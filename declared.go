package components

import (
	"context"
	"errors"
	"fmt"
)

// PropConfig declares a prop in a ConfigFile. A prop without a default is
// required.
type PropConfig struct {
	Name    string `toml:"name"`
	Default any    `toml:"default"`
}

func (p PropConfig) prop() Prop {
	if p.Default == nil {
		return Required(p.Name)
	}
	return Optional(p.Name, p.Default)
}

// ComponentConfig declares a Component in a ConfigFile.
type ComponentConfig struct {
	Name                   string       `toml:"name"`
	Template               string       `toml:"template"`
	Positional             []PropConfig `toml:"positional"`
	Keyword                []PropConfig `toml:"keyword"`
	NonShadowing           []string     `toml:"non_shadowing"`
	AllowArbitraryKeywords bool         `toml:"allow_arbitrary_keywords"`
	CSS                    []string     `toml:"css"`
	JS                     []string     `toml:"js"`
}

// Component builds the DeclaredComponent the config describes.
func (c ComponentConfig) Component() *DeclaredComponent {
	comp := &DeclaredComponent{
		TemplatePath: c.Template,
		PropDecl: Props{
			NonShadowing:           c.NonShadowing,
			AllowArbitraryKeywords: c.AllowArbitraryKeywords,
		},
	}
	for _, prop := range c.Positional {
		comp.PropDecl.Positional = append(comp.PropDecl.Positional, prop.prop())
	}
	for _, prop := range c.Keyword {
		comp.PropDecl.Keyword = append(comp.PropDecl.Keyword, prop.prop())
	}
	for _, href := range c.CSS {
		comp.CSS = append(comp.CSS, CSSLink{Href: href})
	}
	for _, src := range c.JS {
		comp.JS = append(comp.JS, JSLink{Src: src})
	}
	return comp
}

// RegisterComponents registers every Component the ConfigFile declares.
func (f ConfigFile) RegisterComponents(registry *Registry) error {
	var errs []error
	for _, decl := range f.Components {
		if decl.Template == "" {
			errs = append(errs, fmt.Errorf("component %q declares no template", decl.Name))
			continue
		}
		if err := registry.Register(decl.Name, decl.Component()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DeclaredComponent is a Component that is nothing but data: a template, an
// argument contract and the media it needs. It's what a ConfigFile's
// components become, and is handy for Components that need no Go logic.
type DeclaredComponent struct {
	TemplatePath string
	PropDecl     Props
	CSS          []CSSLink
	JS           []JSLink
}

var (
	_ Component     = &DeclaredComponent{}
	_ PropsDeclarer = &DeclaredComponent{}
	_ CSSLinker     = &DeclaredComponent{}
	_ JSLinker      = &DeclaredComponent{}
)

// Template returns the DeclaredComponent's template path.
func (d *DeclaredComponent) Template(_ context.Context, _ map[string]any) string {
	return d.TemplatePath
}

// Props returns the DeclaredComponent's argument contract.
func (d *DeclaredComponent) Props() Props {
	return d.PropDecl
}

// LinkCSS returns the stylesheets the DeclaredComponent links to.
func (d *DeclaredComponent) LinkCSS(_ context.Context) []CSSLink {
	return d.CSS
}

// LinkJS returns the scripts the DeclaredComponent links to.
func (d *DeclaredComponent) LinkJS(_ context.Context) []JSLink {
	return d.JS
}
