package components

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Prop declares a single named argument a Component accepts. Use Required or
// Optional to build one; the zero value is a required prop with no name and
// fails validation.
type Prop struct {
	// Name is the name the argument is exposed as in the Component's
	// template context.
	Name string

	// Default is the value used when the caller doesn't supply one. It's
	// only meaningful for optional props.
	Default any

	optional bool
}

// Required returns a Prop that callers must supply a value for.
func Required(name string) Prop {
	return Prop{Name: name}
}

// Optional returns a Prop that falls back to def when callers don't supply a
// value for it.
func Optional(name string, def any) Prop {
	return Prop{Name: name, Default: def, optional: true}
}

// IsOptional reports whether the Prop has a default value.
func (p Prop) IsOptional() bool {
	return p.optional
}

func (p Prop) String() string {
	if p.optional {
		return fmt.Sprintf("%s=%v", p.Name, p.Default)
	}
	return p.Name
}

// Props is the argument contract of a Component: which positional and keyword
// arguments it accepts and what they default to.
type Props struct {
	// Positional lists the props that can be supplied by position, in
	// order. They can also be supplied by keyword. Required props must
	// all come before optional ones.
	Positional []Prop

	// Keyword lists the props that can only be supplied by keyword. A
	// keyword prop may share its name with a positional prop, in which
	// case its default is used when the positional prop is required and
	// not supplied.
	Keyword []Prop

	// NonShadowing lists keyword props that are accepted, but only
	// included in the context when the caller supplies them. When they're
	// omitted, a non-isolated Component sees the caller's value of the
	// same name instead of a default shadowing it.
	NonShadowing []string

	// AllowArbitraryKeywords makes the Component accept, and pass through
	// to its context, keyword arguments it doesn't declare.
	AllowArbitraryKeywords bool
}

// Validate checks the declaration itself: every prop needs a name, names can
// only be declared once, and no required positional prop may follow an
// optional one.
func (p Props) Validate() error {
	seen := map[string]struct{}{}
	declare := func(name string) error {
		if name == "" {
			return fmt.Errorf("%w: empty prop name", ErrDuplicateProp)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateProp, name)
		}
		seen[name] = struct{}{}
		return nil
	}
	var sawOptional string
	for _, prop := range p.Positional {
		if err := declare(prop.Name); err != nil {
			return err
		}
		if prop.optional {
			if sawOptional == "" {
				sawOptional = prop.Name
			}
			continue
		}
		if sawOptional != "" {
			return fmt.Errorf("%w: %q follows %q", ErrRequiredAfterOptional, prop.Name, sawOptional)
		}
	}
	positional := maps.Clone(seen)
	keyword := map[string]struct{}{}
	for _, prop := range p.Keyword {
		if _, ok := keyword[prop.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateProp, prop.Name)
		}
		keyword[prop.Name] = struct{}{}
		if _, ok := positional[prop.Name]; ok {
			continue
		}
		if err := declare(prop.Name); err != nil {
			return err
		}
	}
	for _, name := range p.NonShadowing {
		if err := declare(name); err != nil {
			return err
		}
	}
	return nil
}

// Bind merges the arguments a Component was invoked with into the mapping
// that becomes its template context.
//
// Values are resolved in order of precedence: an explicit positional
// argument, then an explicit keyword argument, then the positional prop's
// default, then a keyword prop's default of the same name. Non-shadowing
// props are only present when supplied.
func (p Props) Bind(args []any, kwargs map[string]any) (map[string]any, error) {
	if len(args) > len(p.Positional) {
		return nil, fmt.Errorf("%w: got %d, accepts at most %d (unexpected: %v)",
			ErrTooManyArguments, len(args), len(p.Positional), args[len(p.Positional):])
	}

	keywordProps := make(map[string]Prop, len(p.Keyword))
	for _, prop := range p.Keyword {
		keywordProps[prop.Name] = prop
	}
	declared := make(map[string]struct{}, len(p.Positional)+len(p.Keyword)+len(p.NonShadowing))

	result := make(map[string]any, len(p.Positional)+len(p.Keyword)+len(kwargs))
	for pos, prop := range p.Positional {
		declared[prop.Name] = struct{}{}
		keywordValue, byKeyword := kwargs[prop.Name]
		switch {
		case pos < len(args):
			if byKeyword {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateArgument, prop.Name)
			}
			result[prop.Name] = args[pos]
		case byKeyword:
			result[prop.Name] = keywordValue
		case prop.optional:
			result[prop.Name] = prop.Default
		default:
			fallback, ok := keywordProps[prop.Name]
			if !ok || !fallback.optional {
				return nil, fmt.Errorf("%w: positional %q", ErrMissingArgument, prop.Name)
			}
			result[prop.Name] = fallback.Default
		}
	}

	var missing []string
	for _, prop := range p.Keyword {
		if _, ok := declared[prop.Name]; ok {
			continue
		}
		declared[prop.Name] = struct{}{}
		if value, ok := kwargs[prop.Name]; ok {
			result[prop.Name] = value
			continue
		}
		if !prop.optional {
			missing = append(missing, prop.Name)
			continue
		}
		result[prop.Name] = prop.Default
	}
	for _, name := range p.NonShadowing {
		declared[name] = struct{}{}
		if value, ok := kwargs[name]; ok {
			result[name] = value
		}
	}

	var unexpected []string
	for name, value := range kwargs {
		if _, ok := declared[name]; ok {
			continue
		}
		if !p.AllowArbitraryKeywords {
			unexpected = append(unexpected, name)
			continue
		}
		result[name] = value
	}

	var errs []error
	if len(unexpected) > 0 {
		slices.Sort(unexpected)
		errs = append(errs, fmt.Errorf("%w: %s", ErrUnexpectedArgument, strings.Join(unexpected, ", ")))
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		errs = append(errs, fmt.Errorf("%w: keyword %s", ErrMissingArgument, strings.Join(missing, ", ")))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return result, nil
}
