// Package canvas implements the pointer state machine shared by the mind map and the
// flowchart: pan the camera, drag a node, and (flowchart only) connect two nodes by
// clicking them in turn.
package canvas

import (
	"math"

	"zenflow/internal/graph"
	"zenflow/internal/model"
)

// DefaultThreshold is the distance in canvas units a press must travel before it
// counts as a drag rather than a click.
const DefaultThreshold = 4.0

type Mode int

const (
	Idle Mode = iota
	Panning
	Dragging
	ConnectPending
)

func (m Mode) String() string {
	switch m {
	case Panning:
		return "panning"
	case Dragging:
		return "dragging"
	case ConnectPending:
		return "connect-pending"
	default:
		return "idle"
	}
}

type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// Press is a pointer-down event. NodeID is the node under the pointer, "" for background.
type Press struct {
	Button Button
	Alt    bool
	NodeID string
}

type OutcomeKind int

const (
	OutcomeNone OutcomeKind = iota
	// OutcomePanned and OutcomeDragged report the end of a gesture that moved something.
	OutcomePanned
	OutcomeDragged
	// OutcomeClicked is a press and release on a node without movement, on a canvas
	// that does not connect.
	OutcomeClicked
	OutcomeConnectArmed
	OutcomeConnected
	OutcomeConnectCancelled
	// OutcomeConnectRejected: the graph refused the edge (duplicate or stale endpoint).
	OutcomeConnectRejected
)

type Outcome struct {
	Kind   OutcomeKind
	NodeID string
	Edge   model.DiagramEdge
}

// State is a read-only view of the controller for rendering.
type State struct {
	Mode          Mode
	DragNodeID    string
	PendingSource string
}

type Controller struct {
	g         *graph.Graph
	connect   bool
	threshold float64

	mode    Mode
	dragID  string
	moved   bool
	carry   model.Point
	offset  model.Point
	pending string
}

type Option func(*Controller)

// WithConnect enables click-to-connect.
func WithConnect() Option {
	return func(c *Controller) { c.connect = true }
}

func WithThreshold(units float64) Option {
	return func(c *Controller) {
		if units >= 0 {
			c.threshold = units
		}
	}
}

func New(g *graph.Graph, opts ...Option) *Controller {
	c := &Controller{g: g, threshold: DefaultThreshold}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Controller) Graph() *graph.Graph { return c.g }

// Offset is the camera translation applied to every node when rendering.
func (c *Controller) Offset() model.Point { return c.offset }

// Pan moves the camera directly (keyboard scrolling).
func (c *Controller) Pan(delta model.Point) { c.offset = c.offset.Add(delta) }

func (c *Controller) State() State {
	s := State{Mode: c.mode, DragNodeID: c.dragID, PendingSource: c.pending}
	if c.mode == Idle && c.pending != "" {
		s.Mode = ConnectPending
	}
	return s
}

// Press starts a gesture. A press while a gesture is already active is ignored.
func (c *Controller) Press(p Press) {
	if c.mode != Idle {
		return
	}
	switch {
	case p.Button == ButtonMiddle, p.Button == ButtonLeft && p.Alt:
		c.mode = Panning
	case p.Button == ButtonLeft && p.NodeID != "":
		if _, ok := c.g.Node(p.NodeID); !ok {
			return
		}
		c.mode = Dragging
		c.dragID = p.NodeID
		c.moved = false
		c.carry = model.Point{}
	}
}

// Move feeds a pointer movement delta in canvas units.
func (c *Controller) Move(delta model.Point) {
	switch c.mode {
	case Panning:
		c.offset = c.offset.Add(delta)
	case Dragging:
		if c.moved {
			c.g.MoveNode(c.dragID, delta)
			return
		}
		c.carry = c.carry.Add(delta)
		if math.Hypot(c.carry.X, c.carry.Y) > c.threshold {
			c.moved = true
			c.g.MoveNode(c.dragID, c.carry)
			c.carry = model.Point{}
		}
	}
}

// Release ends the gesture. A press and release on a node that never crossed the
// threshold is a click, which on a connecting canvas advances the connect protocol.
func (c *Controller) Release() Outcome {
	mode, id, moved := c.mode, c.dragID, c.moved
	c.reset()
	switch mode {
	case Panning:
		return Outcome{Kind: OutcomePanned}
	case Dragging:
		if moved {
			return Outcome{Kind: OutcomeDragged, NodeID: id}
		}
		return c.click(id)
	}
	return Outcome{}
}

// Leave is the pointer leaving the canvas: back to Idle with no click.
func (c *Controller) Leave() {
	c.reset()
}

// Cancel clears a pending connect source. It reports whether one was pending.
func (c *Controller) Cancel() bool {
	had := c.pending != ""
	c.pending = ""
	return had
}

// Click runs the click protocol on a node directly (keyboard selection).
func (c *Controller) Click(nodeID string) Outcome {
	if c.mode != Idle {
		return Outcome{}
	}
	if _, ok := c.g.Node(nodeID); !ok {
		return Outcome{}
	}
	return c.click(nodeID)
}

func (c *Controller) click(id string) Outcome {
	if !c.connect {
		return Outcome{Kind: OutcomeClicked, NodeID: id}
	}
	if c.pending == "" {
		c.pending = id
		return Outcome{Kind: OutcomeConnectArmed, NodeID: id}
	}
	src := c.pending
	c.pending = ""
	if src == id {
		return Outcome{Kind: OutcomeConnectCancelled, NodeID: id}
	}
	e, ok := c.g.AddEdge(src, id)
	if !ok {
		return Outcome{Kind: OutcomeConnectRejected, NodeID: id}
	}
	return Outcome{Kind: OutcomeConnected, NodeID: id, Edge: e}
}

func (c *Controller) reset() {
	c.mode = Idle
	c.dragID = ""
	c.moved = false
	c.carry = model.Point{}
}
