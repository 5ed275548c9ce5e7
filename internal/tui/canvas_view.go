package tui

import (
	"math"
	"strings"

	"zenflow/internal/canvas"
	"zenflow/internal/model"
	"zenflow/internal/projector"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// Canvas units per terminal cell. Node boxes are a fixed width in cells.
const (
	unitsPerCol = 8.0
	unitsPerRow = 16.0
	nodeCells   = 20
)

type cellKind uint8

const (
	cellBlank cellKind = iota
	cellEdge
	cellArrow
	cellNode
	cellNodeSelected
	cellNodePending
	cellBacklog
	cellTodo
	cellInProgress
	cellDone
)

type canvasGrid struct {
	w, h  int
	runes [][]string
	kinds [][]cellKind
}

func newCanvasGrid(w, h int) *canvasGrid {
	g := &canvasGrid{w: w, h: h, runes: make([][]string, h), kinds: make([][]cellKind, h)}
	for y := 0; y < h; y++ {
		g.runes[y] = make([]string, w)
		g.kinds[y] = make([]cellKind, w)
		for x := range g.runes[y] {
			g.runes[y][x] = " "
		}
	}
	return g
}

func (g *canvasGrid) set(x, y int, s string, k cellKind) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.runes[y][x] = s
	g.kinds[y][x] = k
}

// line draws a Bresenham segment between two cells.
func (g *canvasGrid) line(x0, y0, x1, y1 int, s string) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		g.set(x0, y0, s, cellEdge)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (g *canvasGrid) text(x, y int, s string, k cellKind) {
	for _, r := range s {
		g.set(x, y, string(r), k)
		x++
	}
}

func (g *canvasGrid) render() string {
	styles := map[cellKind]lipgloss.Style{
		cellBlank:        lipgloss.NewStyle(),
		cellEdge:         lipgloss.NewStyle().Foreground(colorEdge),
		cellArrow:        lipgloss.NewStyle().Foreground(colorMuted),
		cellNode:         lipgloss.NewStyle().Foreground(colorSurfaceFg).Background(colorControlBg),
		cellNodeSelected: lipgloss.NewStyle().Bold(true).Foreground(colorSelectedFg).Background(colorSelectedBg),
		cellNodePending:  lipgloss.NewStyle().Bold(true).Foreground(colorAccentFg).Background(colorAccent),
		cellBacklog:      lipgloss.NewStyle().Foreground(colorBacklog).Background(colorControlBg),
		cellTodo:         lipgloss.NewStyle().Foreground(colorTodo).Background(colorControlBg),
		cellInProgress:   lipgloss.NewStyle().Foreground(colorInProgress).Background(colorControlBg),
		cellDone:         lipgloss.NewStyle().Foreground(colorDone).Background(colorControlBg),
	}
	var b strings.Builder
	for y := 0; y < g.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		x := 0
		for x < g.w {
			k := g.kinds[y][x]
			start := x
			for x < g.w && g.kinds[y][x] == k {
				x++
			}
			run := strings.Join(g.runes[y][start:x], "")
			if k == cellBlank {
				b.WriteString(run)
				continue
			}
			b.WriteString(styles[k].Render(run))
		}
	}
	return b.String()
}

func cellOf(p model.Point) (int, int) {
	return int(math.Floor(p.X / unitsPerCol)), int(math.Floor(p.Y / unitsPerRow))
}

func statusCell(s model.Status) cellKind {
	switch s {
	case model.StatusDone:
		return cellDone
	case model.StatusInProgress:
		return cellInProgress
	case model.StatusTodo:
		return cellTodo
	default:
		return cellBacklog
	}
}

// renderDiagram draws a projected diagram into a w by h cell grid.
func renderDiagram(d projector.Diagram, selected, pending string, w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	g := newCanvasGrid(w, h)
	for _, e := range d.Edges {
		x0, y0 := cellOf(e.From)
		x1, y1 := cellOf(e.To)
		g.line(x0, y0, x1, y1, glyphEdgeDot())
		mx, my := (x0+x1)/2, (y0+y1)/2
		g.set(mx, my, edgeArrow(x1-x0, y1-y0), cellArrow)
		if e.Edge.Label != "" {
			g.text(mx+2, my, e.Edge.Label, cellArrow)
		}
	}
	for _, nv := range d.Nodes {
		cx, cy := cellOf(nv.Screen)
		left := cx - nodeCells/2

		kind := cellNode
		switch nv.Node.ID {
		case pending:
			kind = cellNodePending
		case selected:
			kind = cellNodeSelected
		}

		label := strings.TrimSpace(nv.Node.Data.Label)
		if b := nv.Node.Data.Bridge; b != nil {
			mark := glyphStatus(b.Status)
			mw := xansi.StringWidth(mark)
			g.text(left, cy, mark, statusCell(b.Status))
			g.text(left+mw, cy, padCells(" "+label, nodeCells-mw), kind)
			continue
		}
		g.text(left, cy, padCells(" "+label, nodeCells), kind)
	}
	return g.render()
}

func edgeArrow(dx, dy int) string {
	if absInt(dx) >= absInt(dy)*2 {
		if dx >= 0 {
			return pick("▸", ">")
		}
		return pick("◂", "<")
	}
	if dy >= 0 {
		return pick("▾", "v")
	}
	return pick("▴", "^")
}

// padCells truncates or pads s to exactly n single-width cells.
func padCells(s string, n int) string {
	if xansi.StringWidth(s) > n {
		s = truncate(s, n)
	}
	if w := xansi.StringWidth(s); w < n {
		s += strings.Repeat(" ", n-w)
	}
	return s
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (m appModel) renderCanvas(w, h int) string {
	v := m.s.View()
	d, ok := m.s.Diagram(v)
	if !ok {
		return ""
	}
	pending := m.s.Controller(v).State().PendingSource
	return renderDiagram(d, m.selectedNode(), pending, w, h)
}

func (m appModel) selectedNode() string {
	id := m.nodeSel[m.s.View()]
	c := m.s.Controller(m.s.View())
	if c == nil || id == "" {
		return ""
	}
	if _, ok := c.Graph().Node(id); !ok {
		return ""
	}
	return id
}

func (m *appModel) cycleNode(dir int) {
	c := m.s.Controller(m.s.View())
	if c == nil {
		return
	}
	nodes := c.Graph().Nodes()
	if len(nodes) == 0 {
		return
	}
	cur := m.selectedNode()
	idx := -1
	for i, n := range nodes {
		if n.ID == cur {
			idx = i
			break
		}
	}
	switch {
	case idx < 0 && dir < 0:
		idx = len(nodes) - 1
	case idx < 0:
		idx = 0
	default:
		idx = (idx + dir + len(nodes)) % len(nodes)
	}
	m.nodeSel[m.s.View()] = nodes[idx].ID
}

// nodeAtCell hit-tests the cell under the pointer, in body coordinates.
func (m appModel) nodeAtCell(x, y int) string {
	d, ok := m.s.Diagram(m.s.View())
	if !ok {
		return ""
	}
	p := model.Point{X: (float64(x) + 0.5) * unitsPerCol, Y: (float64(y) + 0.5) * unitsPerRow}
	n, ok := d.NodeAt(p, nodeCells/2*unitsPerCol, unitsPerRow/2)
	if !ok {
		return ""
	}
	return n.ID
}

func (m *appModel) applyOutcome(o canvas.Outcome) {
	v := m.s.View()
	switch o.Kind {
	case canvas.OutcomeClicked:
		m.nodeSel[v] = o.NodeID
		if n, ok := m.s.DB.Ideation.Node(o.NodeID); ok && v == model.ViewMindMap {
			m.showDetail = n.Data.IsTask()
		}
	case canvas.OutcomeDragged:
		m.nodeSel[v] = o.NodeID
	case canvas.OutcomeConnectArmed:
		m.nodeSel[v] = o.NodeID
		m.setStatus("", false)
	case canvas.OutcomeConnected:
		m.nodeSel[v] = o.NodeID
		m.setStatus("connected "+nodeLabel(m.s, v, o.Edge.Source)+" "+glyphArrow()+" "+nodeLabel(m.s, v, o.Edge.Target), false)
	case canvas.OutcomeConnectCancelled:
		m.setStatus("connect cancelled", false)
	case canvas.OutcomeConnectRejected:
		m.setStatus("edge already exists", false)
	}
}

func (m *appModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	x, y := msg.X, msg.Y-headerRows
	switch m.s.View() {
	case model.ViewMindMap, model.ViewFlowchart:
		m.handleCanvasMouse(msg, x, y)
		return nil
	case model.ViewKanban:
		return m.handleKanbanMouse(msg, x, y)
	}
	return nil
}

func (m *appModel) handleCanvasMouse(msg tea.MouseMsg, x, y int) {
	c := m.s.Controller(m.s.View())
	switch msg.Action {
	case tea.MouseActionPress:
		var btn canvas.Button
		switch msg.Button {
		case tea.MouseButtonLeft:
			btn = canvas.ButtonLeft
		case tea.MouseButtonMiddle:
			btn = canvas.ButtonMiddle
		case tea.MouseButtonRight:
			btn = canvas.ButtonRight
		default:
			return
		}
		c.Press(canvas.Press{Button: btn, Alt: msg.Alt, NodeID: m.nodeAtCell(x, y)})
		m.mouse = mouseState{down: true, x: x, y: y}
	case tea.MouseActionMotion:
		if !m.mouse.down {
			return
		}
		dx, dy := x-m.mouse.x, y-m.mouse.y
		m.mouse.x, m.mouse.y = x, y
		if dx != 0 || dy != 0 {
			c.Move(model.Point{X: float64(dx) * unitsPerCol, Y: float64(dy) * unitsPerRow})
		}
	case tea.MouseActionRelease:
		if !m.mouse.down {
			return
		}
		m.mouse = mouseState{}
		m.applyOutcome(c.Release())
	}
}
