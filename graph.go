package tokendi

import (
	"io"

	"github.com/junioryono/tokendi/internal/graph"
	"github.com/junioryono/tokendi/internal/registry"
)

// Validate checks the dependencies declared by the registered constructors
// for cycles. Only declared dependencies are considered: a factory that
// resolves tokens itself is invisible here and is still checked at
// resolution time. Dependencies with no registration are not an error,
// since a parent container may provide them.
func (b *Builder) Validate() error {
	g, err := dependencyGraph(b.registry, b.table)
	if err != nil {
		return err
	}

	return g.DetectCycles()
}

// WriteDOT writes the declared dependencies of this container's own table
// in Graphviz DOT format. Unregistered dependencies are drawn gray.
func (c *Container) WriteDOT(w io.Writer) error {
	g, err := dependencyGraph(c.registry, c.table)
	if err != nil {
		return err
	}

	return graph.NewVisualizer(g).WriteDOT(w)
}

// WriteGraph writes a plain text listing of the declared dependencies of
// this container's own table.
func (c *Container) WriteGraph(w io.Writer) error {
	g, err := dependencyGraph(c.registry, c.table)
	if err != nil {
		return err
	}

	return graph.NewVisualizer(g).WriteText(w)
}

func dependencyGraph(reg *registry.Registry, t *table) (*graph.DependencyGraph, error) {
	g := graph.NewDependencyGraph()

	for _, id := range t.identities() {
		r, _ := t.get(id)

		deps := make([]registry.Identity, 0, len(r.Dependencies))
		for _, token := range r.Dependencies {
			dep, err := token.identity(reg)
			if err != nil {
				return nil, err
			}
			deps = append(deps, dep)
		}

		g.Add(id, r.Lifetime.String(), deps)
	}

	return g, nil
}
