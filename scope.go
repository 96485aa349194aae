package components

import "maps"

// Scope is a stack of variable layers. Lookups walk the stack from the top,
// so values pushed later shadow values pushed earlier, and popping a layer
// restores whatever it shadowed.
//
// A Scope is not safe for concurrent use; each render builds its own.
type Scope struct {
	layers []map[string]any
}

// NewScope returns a Scope whose bottom layer holds a copy of base.
func NewScope(base map[string]any) *Scope {
	layer := make(map[string]any, len(base))
	maps.Copy(layer, base)
	return &Scope{layers: []map[string]any{layer}}
}

// Push adds a layer holding a copy of values to the top of the Scope. The
// returned function removes it again, along with any layers pushed after it;
// callers should defer it.
func (s *Scope) Push(values map[string]any) func() {
	layer := make(map[string]any, len(values))
	maps.Copy(layer, values)
	s.layers = append(s.layers, layer)
	depth := len(s.layers) - 1
	return func() {
		if len(s.layers) > depth {
			clear(s.layers[depth])
			s.layers = s.layers[:depth]
		}
	}
}

// Set stores value under key in the top layer.
func (s *Scope) Set(key string, value any) {
	s.layers[len(s.layers)-1][key] = value
}

// Get returns the value for key from the highest layer that holds it.
func (s *Scope) Get(key string) (any, bool) {
	for i := len(s.layers) - 1; i >= 0; i-- {
		if val, ok := s.layers[i][key]; ok {
			return val, true
		}
	}
	return nil, false
}

// Depth returns the number of layers in the Scope.
func (s *Scope) Depth() int {
	return len(s.layers)
}

// Flatten collapses the Scope into a single map, with values from higher
// layers overriding values from lower ones.
func (s *Scope) Flatten() map[string]any {
	result := map[string]any{}
	for _, layer := range s.layers {
		maps.Copy(result, layer)
	}
	return result
}

// Isolated returns a new Scope holding only the values of the keys passed,
// copied from s if s holds them. It's used to render a component without the
// caller's variables while keeping the bookkeeping the component layer needs.
func (s *Scope) Isolated(keep ...string) *Scope {
	base := map[string]any{}
	for _, key := range keep {
		if val, ok := s.Get(key); ok {
			base[key] = val
		}
	}
	return NewScope(base)
}
