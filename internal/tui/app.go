package tui

import (
	"context"
	"fmt"
	"strings"

	"zenflow/internal/model"
	"zenflow/internal/projector"
	"zenflow/internal/session"
	"zenflow/internal/statusutil"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	headerRows = 2
	footerRows = 2
)

// completionMsg carries a finished collaborator job back onto the event loop.
type completionMsg struct {
	c session.Completion
}

type mouseState struct {
	down bool
	x, y int
	// card is the kanban task under the press.
	card string
}

type appModel struct {
	ctx context.Context
	s   *session.Session

	keys  keyMap
	help  help.Model
	input textinput.Model
	spin  spinner.Model

	width  int
	height int

	board    boardSelection
	listSel  int
	ganttSel int
	nodeSel  map[model.ViewType]string

	searching  bool
	showDetail bool
	showHelp   bool
	status     string
	statusErr  bool

	mouse mouseState
}

func newAppModel(ctx context.Context, s *session.Session) appModel {
	if ctx == nil {
		ctx = context.Background()
	}
	in := textinput.New()
	in.CharLimit = 280
	in.Prompt = "› "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)

	return appModel{
		ctx:     ctx,
		s:       s,
		keys:    newKeyMap(),
		help:    help.New(),
		input:   in,
		spin:    sp,
		width:   100,
		height:  30,
		nodeSel: map[model.ViewType]string{},
	}
}

func (m appModel) Init() tea.Cmd {
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.s.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case completionMsg:
		res := msg.c.Apply(m.s)
		m.report(res, "")
		return m, nil

	case tea.BlurMsg:
		m.s.Mind.Leave()
		m.s.Flow.Leave()
		m.mouse = mouseState{}
		return m, nil

	case tea.MouseMsg:
		if m.s.Entry().Open {
			return m, nil
		}
		cmd := m.handleMouse(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.s.Entry().Open {
			return m.updateEntry(msg)
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKey(msg)
	}
	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.QuickEntry):
		cmd := m.openEntry(session.OpenQuickEntry{})
		return m, cmd
	case key.Matches(msg, m.keys.Cancel):
		res, _ := m.s.Dispatch(session.CancelConnect{})
		if res.Changed {
			m.setStatus("connect cancelled", false)
		}
		m.showDetail = false
		return m, nil
	case key.Matches(msg, m.keys.MindMap):
		cmd := m.switchView(model.ViewMindMap)
		return m, cmd
	case key.Matches(msg, m.keys.Flowchart):
		cmd := m.switchView(model.ViewFlowchart)
		return m, cmd
	case key.Matches(msg, m.keys.List):
		cmd := m.switchView(model.ViewList)
		return m, cmd
	case key.Matches(msg, m.keys.Kanban):
		cmd := m.switchView(model.ViewKanban)
		return m, cmd
	case key.Matches(msg, m.keys.Gantt):
		cmd := m.switchView(model.ViewGantt)
		return m, cmd
	}

	switch m.s.View() {
	case model.ViewMindMap, model.ViewFlowchart:
		cmd := m.updateCanvasKey(msg)
		return m, cmd
	case model.ViewKanban:
		cmd := m.updateKanbanKey(msg)
		return m, cmd
	case model.ViewList:
		cmd := m.updateListKey(msg)
		return m, cmd
	case model.ViewGantt:
		cmd := m.updateGanttKey(msg)
		return m, cmd
	}
	return m, nil
}

func (m *appModel) switchView(v model.ViewType) tea.Cmd {
	m.s.Dispatch(session.SetView{View: v})
	m.showDetail = false
	m.mouse = mouseState{}
	return nil
}

// dispatch applies cmd and, when it carries a collaborator job, schedules the job off
// the event loop.
func (m *appModel) dispatch(cmd session.Command, done string) tea.Cmd {
	res, job := m.s.Dispatch(cmd)
	m.report(res, done)
	if job == nil {
		return nil
	}
	ctx := m.ctx
	return tea.Batch(m.spin.Tick, func() tea.Msg {
		return completionMsg{c: job(ctx)}
	})
}

func (m *appModel) report(res session.Result, done string) {
	switch {
	case res.Err != nil:
		m.setStatus(res.Message, true)
	case res.Message == "busy":
		m.setStatus("AI is still working", false)
	case res.Pending:
		m.setStatus("thinking…", false)
	case res.NotFound:
		m.setStatus("", false)
	case !res.Changed:
	case done != "":
		m.setStatus(done, false)
	case len(res.Nodes) > 0 && len(res.Tasks) == 0:
		m.setStatus(fmt.Sprintf("%d node(s) added", len(res.Nodes)), false)
	case len(res.Tasks) > 0:
		m.setStatus(fmt.Sprintf("%d task(s) updated", len(res.Tasks)), false)
	}
}

func (m *appModel) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m *appModel) openEntry(cmd session.Command) tea.Cmd {
	res, _ := m.s.Dispatch(cmd)
	if res.NotFound {
		return nil
	}
	m.input.Placeholder = "e.g. Finish report by Friday #work urgent"
	m.input.SetValue("")
	return m.input.Focus()
}

func (m appModel) updateEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.s.Dispatch(session.CloseQuickEntry{})
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		cmd := m.dispatch(session.SubmitQuickEntry{Text: text}, "")
		if !m.s.Entry().Open {
			m.input.Blur()
			m.input.SetValue("")
		}
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		f := m.s.Filter()
		f.Search = ""
		m.s.Dispatch(session.SetFilter{Filter: f})
		m.searching = false
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		m.searching = false
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	f := m.s.Filter()
	f.Search = m.input.Value()
	m.s.Dispatch(session.SetFilter{Filter: f})
	m.listSel = 0
	return m, cmd
}

func (m *appModel) updateCanvasKey(msg tea.KeyMsg) tea.Cmd {
	v := m.s.View()
	c := m.s.Controller(v)
	step := model.Point{}
	switch {
	case key.Matches(msg, m.keys.Up):
		step.Y = unitsPerRow
	case key.Matches(msg, m.keys.Down):
		step.Y = -unitsPerRow
	case key.Matches(msg, m.keys.Left):
		step.X = unitsPerCol * 2
	case key.Matches(msg, m.keys.Right):
		step.X = -unitsPerCol * 2
	case key.Matches(msg, m.keys.NextNode):
		m.cycleNode(1)
		return nil
	case key.Matches(msg, m.keys.PrevNode):
		m.cycleNode(-1)
		return nil
	case key.Matches(msg, m.keys.Click):
		id := m.selectedNode()
		if id == "" {
			return nil
		}
		m.applyOutcome(c.Click(id))
		return nil
	}
	if step != (model.Point{}) {
		c.Pan(step)
		return nil
	}
	if v != model.ViewMindMap {
		return nil
	}

	id := m.selectedNode()
	if id == "" {
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.Expand):
		return m.dispatch(session.ExpandNode{NodeID: id}, "")
	case key.Matches(msg, m.keys.AddChild):
		return m.openEntry(session.AddChild{ParentNodeID: id})
	case key.Matches(msg, m.keys.PromoteTask):
		return m.dispatch(session.PromoteNode{NodeID: id, Level: model.LevelTask}, "promoted to task")
	case key.Matches(msg, m.keys.PromoteGoal):
		return m.dispatch(session.PromoteNode{NodeID: id, Level: model.LevelGoal}, "promoted to goal")
	case key.Matches(msg, m.keys.PromoteProject):
		return m.dispatch(session.PromoteNode{NodeID: id, Level: model.LevelProject}, "promoted to project")
	case key.Matches(msg, m.keys.Toggle):
		if n, ok := m.s.DB.Ideation.Node(id); ok && n.Data.IsTask() {
			return m.dispatch(session.ToggleTask{TaskID: n.Data.TaskID()}, "")
		}
	case key.Matches(msg, m.keys.Decompose):
		if n, ok := m.s.DB.Ideation.Node(id); ok && n.Data.IsTask() {
			return m.dispatch(session.DecomposeTask{TaskID: n.Data.TaskID()}, "")
		}
	}
	return nil
}

func (m *appModel) updateKanbanKey(msg tea.KeyMsg) tea.Cmd {
	k := m.s.Kanban()
	m.board = m.board.clamp(k)
	switch {
	case key.Matches(msg, m.keys.MoveLeft):
		if card, ok := m.board.selected(k); ok {
			return m.dispatch(session.MoveTask{TaskID: card.Task.ID, Dir: -1}, "")
		}
	case key.Matches(msg, m.keys.MoveRight):
		if card, ok := m.board.selected(k); ok {
			return m.dispatch(session.MoveTask{TaskID: card.Task.ID, Dir: 1}, "")
		}
	case key.Matches(msg, m.keys.Left):
		m.board.Col--
		m.board.TaskID = ""
	case key.Matches(msg, m.keys.Right):
		m.board.Col++
		m.board.TaskID = ""
	case key.Matches(msg, m.keys.Up):
		m.board.Card--
		m.board.TaskID = ""
	case key.Matches(msg, m.keys.Down):
		m.board.Card++
		m.board.TaskID = ""
	case key.Matches(msg, m.keys.Toggle):
		if card, ok := m.board.selected(k); ok {
			return m.dispatch(session.ToggleTask{TaskID: card.Task.ID}, "")
		}
	case key.Matches(msg, m.keys.Decompose):
		if card, ok := m.board.selected(k); ok {
			return m.dispatch(session.DecomposeTask{TaskID: card.Task.ID}, "")
		}
	case key.Matches(msg, m.keys.Detail):
		m.showDetail = !m.showDetail
	}
	m.board = m.board.clamp(k)
	return nil
}

func (m *appModel) updateListKey(msg tea.KeyMsg) tea.Cmd {
	rows := m.s.List()
	f := m.s.Filter()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.listSel--
	case key.Matches(msg, m.keys.Down):
		m.listSel++
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.input.Placeholder = "search titles"
		m.input.SetValue(f.Search)
		return m.input.Focus()
	case key.Matches(msg, m.keys.FilterStatus):
		f.Status = cycleStatus(f.Status)
		m.s.Dispatch(session.SetFilter{Filter: f})
		m.listSel = 0
	case key.Matches(msg, m.keys.FilterPriority):
		f.Priority = cyclePriority(f.Priority)
		m.s.Dispatch(session.SetFilter{Filter: f})
		m.listSel = 0
	case key.Matches(msg, m.keys.FilterSprint):
		f.Sprint = cycleSprint(f.Sprint, projector.Sprints(m.s.Tasks()))
		m.s.Dispatch(session.SetFilter{Filter: f})
		m.listSel = 0
	case key.Matches(msg, m.keys.ClearFilters):
		m.s.Dispatch(session.SetFilter{Filter: projector.ListFilter{}})
		m.listSel = 0
	case key.Matches(msg, m.keys.Toggle):
		if t, ok := rowAt(rows, m.listSel); ok {
			return m.dispatch(session.ToggleTask{TaskID: t.ID}, "")
		}
	case key.Matches(msg, m.keys.Decompose):
		if t, ok := rowAt(rows, m.listSel); ok {
			return m.dispatch(session.DecomposeTask{TaskID: t.ID}, "")
		}
	case key.Matches(msg, m.keys.Detail):
		m.showDetail = !m.showDetail
	}
	m.listSel = clampIndex(m.listSel, len(m.s.List()))
	return nil
}

func (m *appModel) updateGanttKey(msg tea.KeyMsg) tea.Cmd {
	bars := m.s.Gantt().Bars
	switch {
	case key.Matches(msg, m.keys.Up):
		m.ganttSel--
	case key.Matches(msg, m.keys.Down):
		m.ganttSel++
	case key.Matches(msg, m.keys.Toggle):
		if m.ganttSel >= 0 && m.ganttSel < len(bars) {
			return m.dispatch(session.ToggleTask{TaskID: bars[m.ganttSel].Task.ID}, "")
		}
	case key.Matches(msg, m.keys.Detail):
		m.showDetail = !m.showDetail
	}
	m.ganttSel = clampIndex(m.ganttSel, len(bars))
	return nil
}

func rowAt(rows []projector.ListRow, i int) (model.Task, bool) {
	if i < 0 || i >= len(rows) {
		return model.Task{}, false
	}
	return rows[i].Task, true
}

func clampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func cycleStatus(cur *model.Status) *model.Status {
	order := statusutil.KanbanOrder
	if cur == nil {
		st := order[0]
		return &st
	}
	for i, st := range order {
		if st == *cur && i+1 < len(order) {
			next := order[i+1]
			return &next
		}
	}
	return nil
}

func cyclePriority(cur *model.Priority) *model.Priority {
	order := statusutil.Priorities
	if cur == nil {
		p := order[0]
		return &p
	}
	for i, p := range order {
		if p == *cur && i+1 < len(order) {
			next := order[i+1]
			return &next
		}
	}
	return nil
}

func cycleSprint(cur *string, sprints []string) *string {
	if len(sprints) == 0 {
		return nil
	}
	if cur == nil {
		s := sprints[0]
		return &s
	}
	for i, s := range sprints {
		if s == *cur && i+1 < len(sprints) {
			next := sprints[i+1]
			return &next
		}
	}
	return nil
}

// selectedTask is the task the detail pane shows for the current view.
func (m appModel) selectedTask() (model.Task, bool) {
	switch m.s.View() {
	case model.ViewKanban:
		k := m.s.Kanban()
		if card, ok := m.board.clamp(k).selected(k); ok {
			return card.Task, true
		}
	case model.ViewList:
		return rowAt(m.s.List(), m.listSel)
	case model.ViewGantt:
		bars := m.s.Gantt().Bars
		if m.ganttSel >= 0 && m.ganttSel < len(bars) {
			return bars[m.ganttSel].Task, true
		}
	case model.ViewMindMap:
		if n, ok := m.s.DB.Ideation.Node(m.selectedNode()); ok && n.Data.IsTask() {
			return m.s.DB.FindTask(n.Data.TaskID())
		}
	}
	return model.Task{}, false
}

func (m appModel) View() string {
	w, h := m.width, m.height
	bodyH := h - headerRows - footerRows
	if bodyH < 1 {
		bodyH = 1
	}

	var body string
	switch {
	case m.showHelp:
		body = m.help.FullHelpView(m.keys.FullHelp())
	case m.s.Entry().Open:
		body = lipgloss.Place(w, bodyH, lipgloss.Center, lipgloss.Center, m.renderEntry(w))
	default:
		mainW := m.bodyWidth()
		var detail string
		if mainW < w {
			if t, ok := m.selectedTask(); ok {
				detail = renderDetail(t, w-mainW-1, bodyH)
			}
		}
		body = m.renderBody(mainW, bodyH)
		if detail != "" {
			sep := normalizePane(strings.Repeat("│\n", bodyH), 1, bodyH)
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, styleMuted().Render(sep), detail)
		}
	}

	return strings.Join([]string{
		m.renderHeader(w),
		normalizePane(body, w, bodyH),
		m.renderFooter(w),
	}, "\n")
}

// bodyWidth is the width left for the active view once the detail pane is shown.
func (m appModel) bodyWidth() int {
	if !m.showDetail {
		return m.width
	}
	if _, ok := m.selectedTask(); !ok {
		return m.width
	}
	return m.width * 3 / 5
}

func (m appModel) renderBody(w, h int) string {
	switch m.s.View() {
	case model.ViewMindMap, model.ViewFlowchart:
		return m.renderCanvas(w, h)
	case model.ViewKanban:
		return renderKanban(m.s.Kanban(), m.board, w, h)
	case model.ViewList:
		return m.renderList(w, h)
	case model.ViewGantt:
		return renderGantt(m.s.Gantt(), m.ganttSel, m.s.Now(), w, h)
	}
	return ""
}

var viewTabs = []struct {
	view  model.ViewType
	label string
}{
	{model.ViewMindMap, "1 Mind Map"},
	{model.ViewFlowchart, "2 Flowchart"},
	{model.ViewList, "3 List"},
	{model.ViewKanban, "4 Kanban"},
	{model.ViewGantt, "5 Gantt"},
}

func (m appModel) renderHeader(w int) string {
	active := lipgloss.NewStyle().Bold(true).Foreground(colorAccentFg).Background(colorAccent).Padding(0, 1)
	idle := lipgloss.NewStyle().Foreground(colorSurfaceFg).Padding(0, 1)
	parts := make([]string, 0, len(viewTabs)+2)
	parts = append(parts, lipgloss.NewStyle().Bold(true).Render("ZenFlow")+" ")
	for _, tab := range viewTabs {
		if tab.view == m.s.View() {
			parts = append(parts, active.Render(tab.label))
		} else {
			parts = append(parts, idle.Render(tab.label))
		}
	}
	left := strings.Join(parts, "")
	right := ""
	if m.s.Loading() {
		right = m.spin.View() + " AI is working"
	}
	line := left
	if gap := w - lipgloss.Width(left) - lipgloss.Width(right); gap > 0 {
		line = left + strings.Repeat(" ", gap) + right
	}
	rule := styleMuted().Render(strings.Repeat(glyphHRule(), max(w, 0)))
	return fitWidth(line, w) + "\n" + rule
}

func (m appModel) renderFooter(w int) string {
	status := m.status
	st := styleMuted()
	if m.statusErr {
		st = lipgloss.NewStyle().Foreground(colorError)
	}
	if m.searching {
		status = "/" + m.input.View()
		st = lipgloss.NewStyle()
	} else if c := m.s.Controller(m.s.View()); c != nil {
		if src := c.State().PendingSource; src != "" {
			status = fmt.Sprintf("connecting from %s: click a target, esc to cancel", nodeLabel(m.s, m.s.View(), src))
		}
	}
	helpLine := m.help.ShortHelpView(m.keys.ShortHelp())
	return fitWidth(st.Render(status), w) + "\n" + fitWidth(helpLine, w)
}

func nodeLabel(s *session.Session, v model.ViewType, id string) string {
	c := s.Controller(v)
	if c == nil {
		return id
	}
	if n, ok := c.Graph().Node(id); ok {
		return n.Data.Label
	}
	return id
}
