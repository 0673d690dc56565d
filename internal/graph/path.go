package graph

import (
	"slices"
	"sync"

	"github.com/junioryono/tokendi/internal/registry"
)

// Path tracks the identities currently being resolved on one logical
// resolution path. A new Path is created for every root resolution, so
// detection is path-sensitive: the same identity resolved on two
// independent paths is never reported as a cycle.
type Path struct {
	mu    sync.Mutex
	stack []registry.Identity
}

// NewPath creates an empty resolution path.
func NewPath() *Path {
	return &Path{}
}

// Begin marks id as in flight. It fails with *CircularDependencyError if id
// is already on the path.
func (p *Path) Begin(id registry.Identity) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if slices.Contains(p.stack, id) {
		return &CircularDependencyError{
			Node: id,
			Path: slices.Clone(p.stack),
		}
	}

	p.stack = append(p.stack, id)
	return nil
}

// End removes id from the path. It is safe to call for an identity that
// is not in flight.
func (p *Path) End(id registry.Identity) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i] == id {
			p.stack = slices.Delete(p.stack, i, i+1)
			return
		}
	}
}

// Depth returns the number of identities in flight.
func (p *Path) Depth() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.stack)
}

// Snapshot returns a copy of the identities in flight, oldest first.
func (p *Path) Snapshot() []registry.Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.stack)
}
