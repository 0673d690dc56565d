package graph

import (
	"fmt"
	"io"
	"strings"
)

// Visualizer renders a DependencyGraph.
type Visualizer struct {
	graph *DependencyGraph
}

// NewVisualizer creates a visualizer for graph.
func NewVisualizer(graph *DependencyGraph) *Visualizer {
	return &Visualizer{graph: graph}
}

// WriteDOT writes the graph in Graphviz DOT format. Nodes are emitted in
// insertion order, so output is stable for a given registration order.
func (v *Visualizer) WriteDOT(w io.Writer) error {
	nodes := v.graph.Nodes()

	var b strings.Builder
	b.WriteString("digraph dependencies {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box];\n")

	ids := make(map[string]string, len(nodes))
	for i, node := range nodes {
		nodeID := fmt.Sprintf("n%d", i)
		ids[node.ID.String()] = nodeID

		fmt.Fprintf(&b, "  %s [label=%q, fillcolor=%q, style=filled];\n",
			nodeID, nodeLabel(node), nodeColor(node))
	}

	for _, node := range nodes {
		for _, dep := range node.Dependencies {
			fmt.Fprintf(&b, "  %s -> %s;\n", ids[node.ID.String()], ids[dep.String()])
		}
	}

	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteText writes one line per node listing its dependencies, followed by
// a cycle summary.
func (v *Visualizer) WriteText(w io.Writer) error {
	var b strings.Builder

	for _, node := range v.graph.Nodes() {
		deps := make([]string, len(node.Dependencies))
		for i, dep := range node.Dependencies {
			deps[i] = dep.String()
		}

		marker := ""
		if !node.Registered {
			marker = " (missing)"
		}

		fmt.Fprintf(&b, "%s%s -> [%s]\n", node.ID, marker, strings.Join(deps, ", "))
	}

	if err := v.graph.DetectCycles(); err != nil {
		fmt.Fprintf(&b, "cycles: %v\n", err)
	} else {
		b.WriteString("cycles: none\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func nodeLabel(node Node) string {
	if node.Lifetime == "" {
		return node.ID.String()
	}
	return node.ID.String() + "\n" + node.Lifetime
}

func nodeColor(node Node) string {
	if !node.Registered {
		return "lightgray"
	}

	switch node.Lifetime {
	case "Singleton":
		return "lightblue"
	case "Transient":
		return "lightyellow"
	default:
		return "white"
	}
}
