package components

import "sync"

// outlineCache holds the outline of every template an Engine has loaded, so
// the source only has to be scanned once.
//
// It can safely be used by multiple goroutines.
type outlineCache struct {
	mu       sync.RWMutex
	outlines map[string]templateOutline
}

func newOutlineCache() *outlineCache {
	return &outlineCache{
		outlines: map[string]templateOutline{},
	}
}

func (c *outlineCache) get(name string) (templateOutline, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	outline, ok := c.outlines[name]
	return outline, ok
}

func (c *outlineCache) set(name string, outline templateOutline) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outlines[name] = outline
}

func (c *outlineCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.outlines)
}
