package projector

import (
	"zenflow/internal/graph"
	"zenflow/internal/model"
)

type DiagramNodeView struct {
	Node model.DiagramNode `json:"node"`
	// Screen is the node position with the camera offset applied.
	Screen model.Point `json:"screen"`
}

type DiagramEdgeView struct {
	Edge model.DiagramEdge `json:"edge"`
	From model.Point       `json:"from"`
	To   model.Point       `json:"to"`
}

type Diagram struct {
	Kind   graph.Kind        `json:"kind"`
	Offset model.Point       `json:"offset"`
	Nodes  []DiagramNodeView `json:"nodes"`
	Edges  []DiagramEdgeView `json:"edges"`
}

// BuildDiagram projects a graph through a camera offset. Edges with a missing endpoint
// are skipped.
func BuildDiagram(g *graph.Graph, offset model.Point) Diagram {
	d := Diagram{Kind: g.Kind(), Offset: offset, Nodes: []DiagramNodeView{}, Edges: []DiagramEdgeView{}}
	for _, n := range g.Nodes() {
		d.Nodes = append(d.Nodes, DiagramNodeView{Node: n, Screen: n.Position.Add(offset)})
	}
	for _, s := range g.Segments() {
		d.Edges = append(d.Edges, DiagramEdgeView{
			Edge: s.Edge,
			From: s.Source.Position.Add(offset),
			To:   s.Target.Position.Add(offset),
		})
	}
	return d
}

// NodeAt returns the topmost node whose screen-space box contains p. Later nodes are
// drawn above earlier ones.
func (d Diagram) NodeAt(p model.Point, halfW, halfH float64) (model.DiagramNode, bool) {
	for i := len(d.Nodes) - 1; i >= 0; i-- {
		s := d.Nodes[i].Screen
		if p.X >= s.X-halfW && p.X <= s.X+halfW && p.Y >= s.Y-halfH && p.Y <= s.Y+halfH {
			return d.Nodes[i].Node, true
		}
	}
	return model.DiagramNode{}, false
}
