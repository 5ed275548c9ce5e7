// Package graph holds the node-link graphs behind the mind map (ideation) and the
// flowchart (process). Both share one contract; they are independent instances.
package graph

import (
	"zenflow/internal/ids"
	"zenflow/internal/model"
)

type Kind string

const (
	KindIdeation Kind = "ideation"
	KindProcess  Kind = "process"
)

// Graph is an ordered arena of nodes and directed edges.
// Lookups by id return an explicit found flag; callers decide how to degrade.
type Graph struct {
	kind  Kind
	nodes []model.DiagramNode
	edges []model.DiagramEdge
	newID func(prefix string) string
}

type Option func(*Graph)

// WithIDFunc replaces the identifier generator (tests use deterministic ids).
func WithIDFunc(fn func(prefix string) string) Option {
	return func(g *Graph) {
		if fn != nil {
			g.newID = fn
		}
	}
}

func New(kind Kind, opts ...Option) *Graph {
	g := &Graph{kind: kind, newID: ids.New}
	for _, o := range opts {
		o(g)
	}
	return g
}

func (g *Graph) Kind() Kind { return g.kind }

// Seed loads initial content verbatim (ids included). Bridge fields on a process
// graph are dropped.
func (g *Graph) Seed(nodes []model.DiagramNode, edges []model.DiagramEdge) {
	for _, n := range nodes {
		n = n.Clone()
		if g.kind == KindProcess {
			n.Data.Bridge = nil
		}
		g.nodes = append(g.nodes, n)
	}
	g.edges = append(g.edges, edges...)
}

// AddNode appends a node with a fresh identifier.
func (g *Graph) AddNode(pos model.Point, data model.NodeData) model.DiagramNode {
	n := model.DiagramNode{ID: g.newID(ids.PrefixNode), Position: pos, Data: data}
	n = n.Clone()
	if g.kind == KindProcess {
		n.Data.Bridge = nil
	}
	g.nodes = append(g.nodes, n)
	return n.Clone()
}

// AddEdge appends source -> target. It is rejected (ok=false) for self-loops, for an
// edge that already exists in that direction, and when either endpoint is unknown.
func (g *Graph) AddEdge(source, target string) (model.DiagramEdge, bool) {
	if source == "" || target == "" || source == target {
		return model.DiagramEdge{}, false
	}
	if g.indexOf(source) < 0 || g.indexOf(target) < 0 {
		return model.DiagramEdge{}, false
	}
	if g.HasEdge(source, target) {
		return model.DiagramEdge{}, false
	}
	e := model.DiagramEdge{ID: g.newID(ids.PrefixEdge), Source: source, Target: target}
	g.edges = append(g.edges, e)
	return e, true
}

// MoveNode translates a node by delta. No collision detection.
func (g *Graph) MoveNode(id string, delta model.Point) bool {
	i := g.indexOf(id)
	if i < 0 {
		return false
	}
	g.nodes[i].Position = g.nodes[i].Position.Add(delta)
	return true
}

func (g *Graph) HasEdge(source, target string) bool {
	for _, e := range g.edges {
		if e.Source == source && e.Target == target {
			return true
		}
	}
	return false
}

func (g *Graph) Node(id string) (model.DiagramNode, bool) {
	i := g.indexOf(id)
	if i < 0 {
		return model.DiagramNode{}, false
	}
	return g.nodes[i].Clone(), true
}

// UpdateNode applies fn to the stored node in place.
func (g *Graph) UpdateNode(id string, fn func(n *model.DiagramNode)) bool {
	i := g.indexOf(id)
	if i < 0 {
		return false
	}
	fn(&g.nodes[i])
	return true
}

// EachNode visits every stored node in order; fn may mutate the node.
func (g *Graph) EachNode(fn func(n *model.DiagramNode)) {
	for i := range g.nodes {
		fn(&g.nodes[i])
	}
}

func (g *Graph) Nodes() []model.DiagramNode {
	out := make([]model.DiagramNode, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n.Clone())
	}
	return out
}

func (g *Graph) Edges() []model.DiagramEdge {
	return append([]model.DiagramEdge(nil), g.edges...)
}

// OutDegree counts edges leaving id.
func (g *Graph) OutDegree(id string) int {
	n := 0
	for _, e := range g.edges {
		if e.Source == id {
			n++
		}
	}
	return n
}

func (g *Graph) Len() int { return len(g.nodes) }

func (g *Graph) indexOf(id string) int {
	for i := range g.nodes {
		if g.nodes[i].ID == id {
			return i
		}
	}
	return -1
}
