package graph

import "zenflow/internal/model"

// Segment is an edge with both endpoints resolved.
type Segment struct {
	Edge   model.DiagramEdge
	Source model.DiagramNode
	Target model.DiagramNode
}

// Segments resolves every edge whose endpoints both exist. Dangling edges are skipped.
func (g *Graph) Segments() []Segment {
	byID := make(map[string]int, len(g.nodes))
	for i, n := range g.nodes {
		byID[n.ID] = i
	}
	out := make([]Segment, 0, len(g.edges))
	for _, e := range g.edges {
		si, ok := byID[e.Source]
		if !ok {
			continue
		}
		ti, ok := byID[e.Target]
		if !ok {
			continue
		}
		out = append(out, Segment{Edge: e, Source: g.nodes[si].Clone(), Target: g.nodes[ti].Clone()})
	}
	return out
}
