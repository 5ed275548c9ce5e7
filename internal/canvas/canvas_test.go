package canvas

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenflow/internal/graph"
	"zenflow/internal/model"
)

func newGraph(kind graph.Kind) *graph.Graph {
	n := 0
	g := graph.New(kind, graph.WithIDFunc(func(prefix string) string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}))
	g.Seed([]model.DiagramNode{
		{ID: "a", Position: model.Point{X: 10, Y: 10}, Data: model.NodeData{Label: "Start"}},
		{ID: "b", Position: model.Point{X: 10, Y: 100}, Data: model.NodeData{Label: "Check"}},
	}, nil)
	return g
}

func pos(t *testing.T, g *graph.Graph, id string) model.Point {
	t.Helper()
	n, ok := g.Node(id)
	require.True(t, ok)
	return n.Position
}

func TestPanMovesCameraNotNodes(t *testing.T) {
	g := newGraph(graph.KindIdeation)
	c := New(g)

	c.Press(Press{Button: ButtonMiddle})
	assert.Equal(t, Panning, c.State().Mode)
	c.Move(model.Point{X: 5, Y: -3})
	c.Move(model.Point{X: 1, Y: 1})
	out := c.Release()

	assert.Equal(t, OutcomePanned, out.Kind)
	assert.Equal(t, model.Point{X: 6, Y: -2}, c.Offset())
	assert.Equal(t, model.Point{X: 10, Y: 10}, pos(t, g, "a"))
	assert.Equal(t, Idle, c.State().Mode)
}

func TestAltLeftPansEvenOverNode(t *testing.T) {
	c := New(newGraph(graph.KindIdeation))
	c.Press(Press{Button: ButtonLeft, Alt: true, NodeID: "a"})
	assert.Equal(t, Panning, c.State().Mode)
}

func TestLeftOnBackgroundStaysIdle(t *testing.T) {
	c := New(newGraph(graph.KindIdeation))
	c.Press(Press{Button: ButtonLeft})
	assert.Equal(t, Idle, c.State().Mode)
	c.Move(model.Point{X: 50})
	assert.Equal(t, model.Point{}, c.Offset())
}

func TestDragMovesNodeByRawDeltas(t *testing.T) {
	g := newGraph(graph.KindIdeation)
	c := New(g)

	c.Press(Press{Button: ButtonLeft, NodeID: "a"})
	require.Equal(t, Dragging, c.State().Mode)
	c.Move(model.Point{X: 2, Y: 0})
	assert.Equal(t, model.Point{X: 10, Y: 10}, pos(t, g, "a"), "under threshold")
	c.Move(model.Point{X: 3, Y: 0})
	assert.Equal(t, model.Point{X: 15, Y: 10}, pos(t, g, "a"), "accumulated delta flushed")
	c.Move(model.Point{X: 0, Y: 1})
	assert.Equal(t, model.Point{X: 15, Y: 11}, pos(t, g, "a"))

	out := c.Release()
	assert.Equal(t, OutcomeDragged, out.Kind)
	assert.Equal(t, "a", out.NodeID)
	assert.Equal(t, model.Point{}, c.Offset(), "camera fixed while dragging")
}

func TestLeaveAlwaysReturnsToIdle(t *testing.T) {
	c := New(newGraph(graph.KindProcess), WithConnect())
	c.Press(Press{Button: ButtonLeft, NodeID: "a"})
	c.Leave()
	assert.Equal(t, Idle, c.State().Mode)
	assert.Empty(t, c.State().PendingSource, "leaving is not a click")

	c.Press(Press{Button: ButtonMiddle})
	c.Leave()
	assert.Equal(t, Idle, c.State().Mode)
}

func TestZeroDistanceClickDoesNotMoveNode(t *testing.T) {
	g := newGraph(graph.KindIdeation)
	c := New(g)
	c.Press(Press{Button: ButtonLeft, NodeID: "b"})
	c.Move(model.Point{X: 1, Y: 1})
	out := c.Release()
	assert.Equal(t, OutcomeClicked, out.Kind)
	assert.Equal(t, model.Point{X: 10, Y: 100}, pos(t, g, "b"))
}

func clickNode(c *Controller, id string) Outcome {
	c.Press(Press{Button: ButtonLeft, NodeID: id})
	return c.Release()
}

func TestConnectCreatesDirectedEdge(t *testing.T) {
	g := newGraph(graph.KindProcess)
	c := New(g, WithConnect())

	out := clickNode(c, "a")
	assert.Equal(t, OutcomeConnectArmed, out.Kind)
	assert.Equal(t, ConnectPending, c.State().Mode)
	assert.Equal(t, "a", c.State().PendingSource)

	out = clickNode(c, "b")
	require.Equal(t, OutcomeConnected, out.Kind)
	assert.Equal(t, "a", out.Edge.Source)
	assert.Equal(t, "b", out.Edge.Target)
	assert.Equal(t, Idle, c.State().Mode)
	assert.Len(t, g.Edges(), 1)

	clickNode(c, "a")
	out = clickNode(c, "b")
	assert.Equal(t, OutcomeConnectRejected, out.Kind, "duplicate direction")
	assert.Len(t, g.Edges(), 1)
	assert.Equal(t, Idle, c.State().Mode)
}

func TestConnectSameNodeTwiceCancels(t *testing.T) {
	g := newGraph(graph.KindProcess)
	c := New(g, WithConnect())

	clickNode(c, "a")
	out := clickNode(c, "a")
	assert.Equal(t, OutcomeConnectCancelled, out.Kind)
	assert.Empty(t, g.Edges())
	assert.Equal(t, Idle, c.State().Mode)
	assert.Empty(t, c.State().PendingSource)
}

func TestDragDoesNotAdvanceConnect(t *testing.T) {
	g := newGraph(graph.KindProcess)
	c := New(g, WithConnect())
	clickNode(c, "a")

	c.Press(Press{Button: ButtonLeft, NodeID: "b"})
	c.Move(model.Point{X: 30})
	out := c.Release()
	assert.Equal(t, OutcomeDragged, out.Kind)
	assert.Equal(t, "a", c.State().PendingSource)
	assert.Empty(t, g.Edges())
}

func TestCancelClearsPending(t *testing.T) {
	c := New(newGraph(graph.KindProcess), WithConnect())
	assert.False(t, c.Cancel())
	clickNode(c, "a")
	assert.True(t, c.Cancel())
	assert.Equal(t, Idle, c.State().Mode)
}

func TestThresholdOption(t *testing.T) {
	g := newGraph(graph.KindIdeation)
	c := New(g, WithThreshold(0))
	c.Press(Press{Button: ButtonLeft, NodeID: "a"})
	c.Move(model.Point{X: 1})
	assert.Equal(t, OutcomeDragged, c.Release().Kind)
	assert.Equal(t, model.Point{X: 11, Y: 10}, pos(t, g, "a"))
}

func TestPressOnUnknownNodeIgnored(t *testing.T) {
	c := New(newGraph(graph.KindIdeation))
	c.Press(Press{Button: ButtonLeft, NodeID: "ghost"})
	assert.Equal(t, Idle, c.State().Mode)
	assert.Equal(t, OutcomeNone, c.Release().Kind)
	assert.Equal(t, OutcomeNone, c.Click("ghost").Kind)
}
