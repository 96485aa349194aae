package components

import (
	"fmt"
	"slices"
	"sync"
)

// Registry maps component names to Components. Build one with NewRegistry,
// register every Component at startup, and pass it to NewEngine. Lookups are
// safe to make from many goroutines at once.
type Registry struct {
	mu         sync.RWMutex
	components map[string]*registration
}

// NewRegistry returns an empty Registry that is ready to be used.
func NewRegistry() *Registry {
	return &Registry{
		components: map[string]*registration{},
	}
}

// Register makes component available to templates under name. It returns an
// error wrapping ErrAlreadyRegistered if name is taken, or one describing
// what's wrong with the Component's Props if they're invalid.
func (r *Registry) Register(name string, component Component) error {
	if name == "" {
		return fmt.Errorf("can't register %T: component name must not be empty", component)
	}
	reg, err := newRegistration(name, component)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.components[name]; ok {
		return fmt.Errorf("%w: %q is already %T", ErrAlreadyRegistered, name, existing.component)
	}
	r.components[name] = reg
	return nil
}

// MustRegister is like Register, but panics if the Component can't be
// registered. It's meant for wiring Components up during initialization.
func (r *Registry) MustRegister(name string, component Component) {
	if err := r.Register(name, component); err != nil {
		panic(err)
	}
}

// Get returns the Component registered under name, or an error wrapping
// ErrNotRegistered.
func (r *Registry) Get(name string) (Component, error) {
	reg, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return reg.component, nil
}

// Registered reports whether a Component is registered under name.
func (r *Registry) Registered(name string) bool {
	_, err := r.lookup(name)
	return err == nil
}

// Names returns the names of every registered Component, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) lookup(name string) (*registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.components[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotRegistered, name)
	}
	return reg, nil
}
