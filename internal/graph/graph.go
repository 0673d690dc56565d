package graph

import (
	"slices"
	"sync"

	"github.com/junioryono/tokendi/internal/registry"
)

// DependencyGraph records the dependencies registrations declare up front.
// It is a static view: factories that resolve tokens at runtime contribute
// no edges, so an acyclic graph does not rule out a cycle during
// resolution.
type DependencyGraph struct {
	mu    sync.RWMutex
	nodes map[registry.Identity]*Node
	order []registry.Identity
}

// Node is one identity in the graph.
type Node struct {
	ID registry.Identity

	// Dependencies are the declared dependencies, in parameter order.
	Dependencies []registry.Identity

	// Registered is false for identities that only appear as a dependency.
	Registered bool

	// Lifetime is an opaque label supplied by the caller.
	Lifetime string
}

// NewDependencyGraph creates an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes: make(map[registry.Identity]*Node),
	}
}

// Add records id with its declared dependencies. Adding an identity twice
// replaces its edges.
func (g *DependencyGraph) Add(id registry.Identity, lifetime string, deps []registry.Identity) {
	g.mu.Lock()
	defer g.mu.Unlock()

	node := g.node(id)
	node.Registered = true
	node.Lifetime = lifetime
	node.Dependencies = slices.Clone(deps)

	for _, dep := range deps {
		g.node(dep)
	}
}

func (g *DependencyGraph) node(id registry.Identity) *Node {
	if n, ok := g.nodes[id]; ok {
		return n
	}

	n := &Node{ID: id}
	g.nodes[id] = n
	g.order = append(g.order, id)
	return n
}

// Size returns the number of nodes, including unregistered dependencies.
func (g *DependencyGraph) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// Nodes returns copies of every node in insertion order.
func (g *DependencyGraph) Nodes() []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	nodes := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		n := *g.nodes[id]
		n.Dependencies = slices.Clone(n.Dependencies)
		nodes = append(nodes, n)
	}
	return nodes
}

// Dependencies returns the declared dependencies of id.
func (g *DependencyGraph) Dependencies(id registry.Identity) []registry.Identity {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if n, ok := g.nodes[id]; ok {
		return slices.Clone(n.Dependencies)
	}
	return nil
}

// Dependents returns the identities that declare id as a dependency, in
// insertion order.
func (g *DependencyGraph) Dependents(id registry.Identity) []registry.Identity {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var dependents []registry.Identity
	for _, from := range g.order {
		if slices.Contains(g.nodes[from].Dependencies, id) {
			dependents = append(dependents, from)
		}
	}
	return dependents
}

// Missing returns the dependencies that no registration provides.
func (g *DependencyGraph) Missing() []registry.Identity {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var missing []registry.Identity
	for _, id := range g.order {
		if !g.nodes[id].Registered {
			missing = append(missing, id)
		}
	}
	return missing
}

// DetectCycles returns a *CircularDependencyError for the first cycle
// found, walking nodes in insertion order.
func (g *DependencyGraph) DetectCycles() error {
	_, err := g.TopologicalSort()
	return err
}

// TopologicalSort orders the identities so that every dependency comes
// before its dependents.
func (g *DependencyGraph) TopologicalSort() ([]registry.Identity, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	const (
		unvisited = iota
		visiting
		visited
	)

	state := make(map[registry.Identity]int, len(g.nodes))
	sorted := make([]registry.Identity, 0, len(g.nodes))
	var stack []registry.Identity

	var visit func(id registry.Identity) error
	visit = func(id registry.Identity) error {
		switch state[id] {
		case visited:
			return nil
		case visiting:
			start := slices.Index(stack, id)
			return &CircularDependencyError{
				Node: id,
				Path: slices.Clone(stack[start:]),
			}
		}

		state[id] = visiting
		stack = append(stack, id)

		for _, dep := range g.nodes[id].Dependencies {
			if err := visit(dep); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		state[id] = visited
		sorted = append(sorted, id)
		return nil
	}

	for _, id := range g.order {
		if err := visit(id); err != nil {
			return nil, err
		}
	}

	return sorted, nil
}
