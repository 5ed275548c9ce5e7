package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	Help       key.Binding
	QuickEntry key.Binding
	Cancel     key.Binding
	Submit     key.Binding

	MindMap   key.Binding
	Flowchart key.Binding
	List      key.Binding
	Kanban    key.Binding
	Gantt     key.Binding

	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	NextNode key.Binding
	PrevNode key.Binding
	Click    key.Binding

	Expand         key.Binding
	AddChild       key.Binding
	PromoteTask    key.Binding
	PromoteGoal    key.Binding
	PromoteProject key.Binding

	MoveLeft  key.Binding
	MoveRight key.Binding
	Toggle    key.Binding
	Decompose key.Binding
	Detail    key.Binding

	Search         key.Binding
	FilterStatus   key.Binding
	FilterPriority key.Binding
	FilterSprint   key.Binding
	ClearFilters   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		QuickEntry: key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "quick entry")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),

		MindMap:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "mind map")),
		Flowchart: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "flowchart")),
		List:      key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "list")),
		Kanban:    key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "kanban")),
		Gantt:     key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "gantt")),

		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),

		NextNode: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next node")),
		PrevNode: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev node")),
		Click:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select/connect")),

		Expand:         key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "AI expand")),
		AddChild:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add child")),
		PromoteTask:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "promote to task")),
		PromoteGoal:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "promote to goal")),
		PromoteProject: key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "promote to project")),

		MoveLeft:  key.NewBinding(key.WithKeys("shift+left", "<", "H"), key.WithHelp("<", "move card left")),
		MoveRight: key.NewBinding(key.WithKeys("shift+right", ">", "L"), key.WithHelp(">", "move card right")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle done")),
		Decompose: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "AI decompose")),
		Detail:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),

		Search:         key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		FilterStatus:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status filter")),
		FilterPriority: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "priority filter")),
		FilterSprint:   key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "sprint filter")),
		ClearFilters:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.QuickEntry, k.MindMap, k.Flowchart, k.List, k.Kanban, k.Gantt, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.QuickEntry, k.Cancel, k.Help, k.Quit},
		{k.MindMap, k.Flowchart, k.List, k.Kanban, k.Gantt},
		{k.NextNode, k.Click, k.Expand, k.AddChild, k.PromoteTask, k.PromoteGoal, k.PromoteProject},
		{k.MoveLeft, k.MoveRight, k.Toggle, k.Decompose, k.Detail},
		{k.Search, k.FilterStatus, k.FilterPriority, k.FilterSprint, k.ClearFilters},
	}
}
