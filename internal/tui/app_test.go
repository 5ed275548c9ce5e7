package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"zenflow/internal/model"
	"zenflow/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestApp(t *testing.T) appModel {
	t.Helper()
	s := session.New(session.Options{
		DefaultSprint: "Sprint 1",
		Now:           func() time.Time { return time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC) },
	})
	m := newAppModel(context.Background(), s)
	mm, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return mm.(appModel)
}

func press(t *testing.T, m appModel, msg tea.Msg) (appModel, tea.Cmd) {
	t.Helper()
	mm, cmd := m.Update(msg)
	return mm.(appModel), cmd
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain executes cmd and feeds any completion back into the model.
func drain(t *testing.T, m appModel, cmd tea.Cmd) appModel {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			m = drain(t, m, c)
		}
	case completionMsg:
		m, _ = press(t, m, msg)
	}
	return m
}

func TestViewKeys_SwitchViews(t *testing.T) {
	m := newTestApp(t)
	for key, want := range map[string]model.ViewType{
		"2": model.ViewFlowchart,
		"3": model.ViewList,
		"4": model.ViewKanban,
		"5": model.ViewGantt,
		"1": model.ViewMindMap,
	} {
		m, _ = press(t, m, runeKey(key))
		if got := m.s.View(); got != want {
			t.Fatalf("key %q: expected %s; got %s", key, want, got)
		}
	}
}

func TestView_RendersHeaderAndSize(t *testing.T) {
	m := newTestApp(t)
	for _, k := range []string{"1", "2", "3", "4", "5"} {
		m, _ = press(t, m, runeKey(k))
		out := m.View()
		if !strings.Contains(out, "ZenFlow") {
			t.Fatalf("view %s: expected header; got %q", k, out)
		}
		if n := len(strings.Split(out, "\n")); n != 30 {
			t.Fatalf("view %s: expected 30 lines; got %d", k, n)
		}
	}
}

func TestCanvasMouse_DragMovesNode(t *testing.T) {
	m := newTestApp(t)
	// n1 sits at (250, 50): cell (31, 3) of the body.
	m, _ = press(t, m, tea.MouseMsg{X: 31, Y: 3 + headerRows, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if got := m.s.Mind.State().DragNodeID; got != "n1" {
		t.Fatalf("expected drag on n1; got %q", got)
	}
	m, _ = press(t, m, tea.MouseMsg{X: 33, Y: 3 + headerRows, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m, _ = press(t, m, tea.MouseMsg{X: 33, Y: 3 + headerRows, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	n, _ := m.s.DB.Ideation.Node("n1")
	if n.Position != (model.Point{X: 266, Y: 50}) {
		t.Fatalf("expected n1 moved two cells right; got %+v", n.Position)
	}
	if m.selectedNode() != "n1" {
		t.Fatalf("expected dragged node to be selected")
	}
}

func TestCanvasMouse_BackgroundPanAndBlur(t *testing.T) {
	m := newTestApp(t)
	m, _ = press(t, m, tea.MouseMsg{X: 90, Y: 20, Action: tea.MouseActionPress, Button: tea.MouseButtonMiddle})
	m, _ = press(t, m, tea.MouseMsg{X: 91, Y: 21, Action: tea.MouseActionMotion, Button: tea.MouseButtonMiddle})
	if got := m.s.Mind.Offset(); got != (model.Point{X: 8, Y: 16}) {
		t.Fatalf("expected pan by one cell; got %+v", got)
	}
	m, _ = press(t, m, tea.BlurMsg{})
	m, _ = press(t, m, tea.MouseMsg{X: 95, Y: 25, Action: tea.MouseActionMotion, Button: tea.MouseButtonMiddle})
	if got := m.s.Mind.Offset(); got != (model.Point{X: 8, Y: 16}) {
		t.Fatalf("expected no pan after focus loss; got %+v", got)
	}
}

func TestFlowchartKeys_ConnectAndCancel(t *testing.T) {
	m := newTestApp(t)
	m, _ = press(t, m, runeKey("2"))
	before := len(m.s.DB.Process.Edges())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.s.Flow.State().PendingSource == "" {
		t.Fatalf("expected a pending connect source")
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.s.Flow.State().PendingSource != "" {
		t.Fatalf("expected esc to cancel the pending connect")
	}

	// First node, then the last one: a new edge.
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := len(m.s.DB.Process.Edges()); got != before+1 {
		t.Fatalf("expected %d edges; got %d", before+1, got)
	}
}

func TestKanbanMouse_DropOnColumn(t *testing.T) {
	m := newTestApp(t)
	m, _ = press(t, m, runeKey("4"))

	// t2 is the only todo card: column 1, first card.
	m, _ = press(t, m, tea.MouseMsg{X: 28, Y: columnHeaderH + headerRows, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, cmd := press(t, m, tea.MouseMsg{X: 78, Y: 10, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m = drain(t, m, cmd)

	task, ok := m.s.DB.FindTask("t2")
	if !ok || task.Status != model.StatusDone {
		t.Fatalf("expected t2 dropped on done; got %+v", task)
	}
	if m.board.TaskID != "t2" {
		t.Fatalf("expected selection to follow the card; got %q", m.board.TaskID)
	}
}

func TestKanbanKeys_MoveAndToggle(t *testing.T) {
	m := newTestApp(t)
	m, _ = press(t, m, runeKey("4"))
	m, _ = press(t, m, runeKey("l")) // todo column
	m, _ = press(t, m, runeKey(">"))
	if task, _ := m.s.DB.FindTask("t2"); task.Status != model.StatusInProgress {
		t.Fatalf("expected t2 in progress; got %s", task.Status)
	}
	m, _ = press(t, m, runeKey("x"))
	if task, _ := m.s.DB.FindTask("t2"); task.Status != model.StatusDone {
		t.Fatalf("expected t2 done; got %s", task.Status)
	}
}

func TestQuickEntry_SubmitCreatesTask(t *testing.T) {
	m := newTestApp(t)
	m, _ = press(t, m, runeKey("3"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlK})
	if !m.s.Entry().Open {
		t.Fatalf("expected quick entry open")
	}
	m, _ = press(t, m, runeKey("Write launch notes"))
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.s.Entry().Open {
		t.Fatalf("expected quick entry closed on submit")
	}
	m = drain(t, m, cmd)

	tasks := m.s.Tasks()
	if len(tasks) != 3 || tasks[0].Title != "Write launch notes" {
		t.Fatalf("expected the new task first, titled from the raw text; got %+v", tasks)
	}
	if tasks[0].DueDate != "2024-06-12" || tasks[0].StartDate != "2024-06-05" {
		t.Fatalf("expected due today and start a week earlier; got start=%q due=%q", tasks[0].StartDate, tasks[0].DueDate)
	}
	if m.s.Loading() {
		t.Fatalf("expected the loading gate released")
	}
}

func TestQuickEntry_EscCloses(t *testing.T) {
	m := newTestApp(t)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlK})
	m, _ = press(t, m, runeKey("q"))
	if !m.s.Entry().Open {
		t.Fatalf("expected q to be typed, not quit")
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.s.Entry().Open {
		t.Fatalf("expected esc to close quick entry")
	}
	if len(m.s.Tasks()) != 2 {
		t.Fatalf("expected no task created")
	}
}

func TestListKeys_FilterCycle(t *testing.T) {
	m := newTestApp(t)
	m, _ = press(t, m, runeKey("3"))
	m, _ = press(t, m, runeKey("s"))
	if f := m.s.Filter(); f.Status == nil || *f.Status != model.StatusBacklog {
		t.Fatalf("expected backlog filter; got %+v", f)
	}
	if rows := m.s.List(); len(rows) != 0 {
		t.Fatalf("expected no backlog tasks; got %d", len(rows))
	}
	m, _ = press(t, m, runeKey("s"))
	if rows := m.s.List(); len(rows) != 1 || rows[0].Task.ID != "t2" {
		t.Fatalf("expected only t2 under todo; got %+v", rows)
	}
	m, _ = press(t, m, runeKey("c"))
	if !m.s.Filter().IsZero() {
		t.Fatalf("expected filters cleared")
	}
}

func TestMindMapKeys_PromoteSelectedNode(t *testing.T) {
	m := newTestApp(t)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab}) // n1
	m, _ = press(t, m, runeKey("g"))
	n, _ := m.s.DB.Ideation.Node("n1")
	if !n.Data.IsTask() || n.Data.Bridge.Level != model.LevelGoal {
		t.Fatalf("expected n1 promoted to a goal; got %+v", n.Data)
	}
	if len(m.s.Tasks()) != 3 {
		t.Fatalf("expected a new task")
	}
}
