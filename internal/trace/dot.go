package trace

import (
	"fmt"
	"io"
	"strings"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
)

// ExportDOT renders the traversed circuit as a Graphviz document: component
// and net vertices, with an edge per connection labeled by the pins on it.
func ExportDOT(result *Result, w io.Writer) error {
	g := graph.New(graph.StringHash)

	for _, net := range result.VisitedNets {
		if err := g.AddVertex("net:"+net, graph.VertexAttribute("label", net), graph.VertexAttribute("shape", "ellipse")); err != nil {
			return fmt.Errorf("failed to add net vertex %q: %w", net, err)
		}
	}
	for _, comp := range result.Components() {
		label := comp.Refdes
		if comp.MPN != "" {
			label += "\n" + comp.MPN
		}
		if err := g.AddVertex("comp:"+comp.Refdes, graph.VertexAttribute("label", label), graph.VertexAttribute("shape", "box")); err != nil {
			return fmt.Errorf("failed to add component vertex %q: %w", comp.Refdes, err)
		}
		for _, conn := range comp.Connections {
			// NC endpoints are not in VisitedNets.
			netVertex := "net:" + conn.Net
			if _, err := g.Vertex(netVertex); err != nil {
				if err := g.AddVertex(netVertex, graph.VertexAttribute("label", conn.Net), graph.VertexAttribute("shape", "ellipse")); err != nil {
					return fmt.Errorf("failed to add net vertex %q: %w", conn.Net, err)
				}
			}
			err := g.AddEdge("comp:"+comp.Refdes, netVertex,
				graph.EdgeAttribute("label", strings.Join(conn.Pins, ",")))
			if err != nil {
				return fmt.Errorf("failed to add edge %s -> %s: %w", comp.Refdes, conn.Net, err)
			}
		}
	}
	return draw.DOT(g, w)
}
