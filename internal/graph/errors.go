package graph

import (
	"errors"
	"strings"

	"github.com/junioryono/tokendi/internal/registry"
)

// ErrCircularDependency is the sentinel matched by CircularDependencyError.
var ErrCircularDependency = errors.New("circular dependency detected")

// CircularDependencyError represents a re-entrant resolution on one path.
// Path holds the identities in flight, in the order they were entered,
// and Node is the identity that closed the cycle.
type CircularDependencyError struct {
	Node registry.Identity
	Path []registry.Identity
}

func (e *CircularDependencyError) Error() string {
	var b strings.Builder
	b.WriteString("circular dependency detected: ")

	for _, id := range e.Path {
		b.WriteString(id.String())
		b.WriteString(" -> ")
	}

	b.WriteString(e.Node.String())
	return b.String()
}

// Is reports whether target is ErrCircularDependency.
func (e *CircularDependencyError) Is(target error) bool {
	return target == ErrCircularDependency
}

// Chain returns the full cycle, ending with the offending identity.
func (e *CircularDependencyError) Chain() []registry.Identity {
	chain := make([]registry.Identity, 0, len(e.Path)+1)
	chain = append(chain, e.Path...)
	return append(chain, e.Node)
}
