package components

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrResourceCycle is returned when the implicit ordering of resources
	// can't be satisfied: one Component lists a resource before another,
	// and a different Component lists them the other way around. The
	// resources involved are still rendered, in the order they were first
	// seen.
	ErrResourceCycle = errors.New("resource ordering cycle detected")
)

// resource is a single CSS or JavaScript asset that a Component declares.
type resource interface {
	// key identifies the resource; two resources with the same key are
	// duplicates and only rendered once.
	key() string

	// linked reports whether the resource is loaded from a URL rather
	// than embedded in the page.
	linked() bool

	// render returns the resource's markup.
	render(Config) string
}

// graph is a directed acyclic graph of resources. It's used to make sure each
// Component's resources are rendered in the order the Component lists them,
// even when several Components share some of them.
type graph struct {
	// nodes holds the nodes in the graph, in the order they were first
	// seen.
	nodes []resource

	// index maps a resource's key to its position in nodes.
	index map[string]int

	// edgesTo holds graph edges, with the key being the position of the
	// node in the nodes slice that the edges are pointing to.
	//
	// if there's a node 1 and a node 2, and an edge from 1->2, edgesTo
	// will have a key of 2 with a value of [1].
	//
	// nodes point to their dependencies and dependencies are always
	// walked first; i.e., if there's an edge from 1->2, 2 will always
	// appear before 1 when walking the graph.
	edgesTo map[int]map[int]struct{}

	// edgesFrom holds graph edges, with the key being the position of the
	// node in the nodes slice that the edges are pointing from.
	//
	// if there's a node 1 and a node 2, and an edge from 1->2, edgesFrom
	// will have a key of 1 with a value of [2].
	edgesFrom map[int]map[int]struct{}
}

func newGraph() *graph {
	return &graph{
		index:     map[string]int{},
		edgesTo:   map[int]map[int]struct{}{},
		edgesFrom: map[int]map[int]struct{}{},
	}
}

// addChain adds resources to the graph, each one depending on the resource
// listed before it. Resources already in the graph aren't added again, but
// still take their place in the chain.
func (g *graph) addChain(resources []resource) {
	last := -1
	for _, res := range resources {
		pos, ok := g.index[res.key()]
		if !ok {
			g.nodes = append(g.nodes, res)
			pos = len(g.nodes) - 1
			g.index[res.key()] = pos
		}
		if last >= 0 && last != pos {
			g.addEdge(pos, last)
		}
		last = pos
	}
}

// addEdge records that the node at from depends on the node at to.
func (g *graph) addEdge(from, to int) {
	if g.edgesFrom[from] == nil {
		g.edgesFrom[from] = map[int]struct{}{}
	}
	if g.edgesTo[to] == nil {
		g.edgesTo[to] = map[int]struct{}{}
	}
	g.edgesFrom[from][to] = struct{}{}
	g.edgesTo[to][from] = struct{}{}
}

// sortResources orders resources that have no ordering constraints between
// them: linked resources come before embedded ones, and otherwise they're
// sorted by key so the output doesn't depend on the order Components were
// rendered in.
func sortResources(first, second resource) int {
	if first.linked() != second.linked() {
		if first.linked() {
			return -1
		}
		return 1
	}
	return strings.Compare(first.key(), second.key())
}

// walk returns every node in the graph, dependencies first. If the graph has
// a cycle, the nodes that couldn't be ordered are appended in the order they
// were first seen, and an error wrapping ErrResourceCycle is returned
// alongside them.
func (g *graph) walk(_ context.Context) ([]resource, error) {
	noParents := make([]int, 0, len(g.nodes))
	results := make([]resource, 0, len(g.nodes))
	for pos := range g.nodes {
		if len(g.edgesFrom[pos]) < 1 {
			noParents = append(noParents, pos)
		}
	}
	byPos := func(a, b int) int {
		return sortResources(g.nodes[a], g.nodes[b])
	}
	slices.SortFunc(noParents, byPos)
	emitted := make(map[int]struct{}, len(g.nodes))
	for len(noParents) > 0 {
		pos := noParents[0]
		noParents = noParents[1:]
		results = append(results, g.nodes[pos])
		emitted[pos] = struct{}{}
		var noParentsChanged bool
		for child := range g.edgesTo[pos] {
			delete(g.edgesFrom[child], pos)
			delete(g.edgesTo[pos], child)
			if len(g.edgesFrom[child]) < 1 {
				delete(g.edgesFrom, child)
				noParents = append(noParents, child)
				noParentsChanged = true
			}
		}
		delete(g.edgesTo, pos)
		if noParentsChanged {
			slices.SortFunc(noParents, byPos)
		}
	}
	if len(results) == len(g.nodes) {
		return results, nil
	}
	var stuck []string
	for pos, node := range g.nodes {
		if _, ok := emitted[pos]; ok {
			continue
		}
		results = append(results, node)
		stuck = append(stuck, node.key())
	}
	return results, fmt.Errorf("%w: resources=[%s]", ErrResourceCycle, strings.Join(stuck, ", "))
}
