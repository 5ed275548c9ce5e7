package tui

import (
	"fmt"
	"strings"

	"zenflow/internal/projector"
	"zenflow/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const (
	columnGap     = 2
	minColumnW    = 14
	cardRows      = 3
	columnHeaderH = 2
)

type boardSelection struct {
	Col  int
	Card int
	// TaskID is the stable selected task id (preferred over Card index so focus follows
	// a card across status changes).
	TaskID string
}

func indexOfTask(k projector.Kanban, taskID string) (int, int, bool) {
	if taskID == "" {
		return 0, 0, false
	}
	for ci, col := range k.Columns {
		for ii, card := range col.Cards {
			if card.Task.ID == taskID {
				return ci, ii, true
			}
		}
	}
	return 0, 0, false
}

func (sel boardSelection) clamp(k projector.Kanban) boardSelection {
	if len(k.Columns) == 0 {
		return boardSelection{Card: -1}
	}
	if ci, ii, ok := indexOfTask(k, sel.TaskID); ok {
		sel.Col, sel.Card = ci, ii
	} else {
		sel.TaskID = ""
	}
	sel.Col = max(0, min(sel.Col, len(k.Columns)-1))

	n := len(k.Columns[sel.Col].Cards)
	if n == 0 {
		sel.Card = -1
		return sel
	}
	sel.Card = max(0, min(sel.Card, n-1))
	sel.TaskID = k.Columns[sel.Col].Cards[sel.Card].Task.ID
	return sel
}

func (sel boardSelection) selected(k projector.Kanban) (projector.KanbanCard, bool) {
	if sel.Col < 0 || sel.Col >= len(k.Columns) {
		return projector.KanbanCard{}, false
	}
	cards := k.Columns[sel.Col].Cards
	if sel.Card < 0 || sel.Card >= len(cards) {
		return projector.KanbanCard{}, false
	}
	return cards[sel.Card], true
}

func columnWidth(n, width int) int {
	if n <= 0 {
		return 0
	}
	avail := width - columnGap*(n-1)
	return max(avail/n, minColumnW)
}

// columnAt maps a body x coordinate to a column index.
func columnAt(n, width, x int) (int, bool) {
	colW := columnWidth(n, width)
	if colW == 0 || x < 0 {
		return 0, false
	}
	ci := x / (colW + columnGap)
	if ci >= n || x-ci*(colW+columnGap) >= colW {
		return 0, false
	}
	return ci, true
}

// cardAt maps a body y coordinate inside a column to a card index.
func cardAt(y, nCards int) (int, bool) {
	if y < columnHeaderH {
		return 0, false
	}
	i := (y - columnHeaderH) / cardRows
	if i >= nCards {
		return 0, false
	}
	return i, true
}

func renderKanban(k projector.Kanban, sel boardSelection, width, height int) string {
	width = max(width, 0)
	height = max(height, 0)
	n := len(k.Columns)
	if n == 0 {
		return normalizePane("", width, height)
	}
	sel = sel.clamp(k)
	colW := columnWidth(n, width)

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg).Background(colorControlBg)
	headerSelectedStyle := lipgloss.NewStyle().Bold(true).Foreground(colorSelectedFg).Background(colorSelectedBg)
	muted := styleMuted()

	// Whitespace defines the card, not borders.
	cardStyle := lipgloss.NewStyle().Width(colW).Padding(0, 1)
	cardSelectedStyle := cardStyle.Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
	innerW := max(colW-2, 0)

	renderCard := func(card projector.KanbanCard, selected bool) string {
		t := card.Task
		title := strings.TrimSpace(t.Title)
		if title == "" {
			title = "(untitled)"
		}
		mark := lipgloss.NewStyle().Foreground(statusColor(t.Status)).Render(glyphStatus(t.Status))
		line1 := mark + " " + truncate(title, innerW-xansi.StringWidth(glyphStatus(t.Status))-1)

		meta := make([]string, 0, 3)
		meta = append(meta, priorityStyle(t.Priority).Render(string(t.Priority)))
		if t.DueDate != "" {
			meta = append(meta, muted.Render(t.DueDate))
		}
		if card.TotalChildren > 0 {
			meta = append(meta, muted.Render(fmt.Sprintf("[%d/%d]", card.DoneChildren, card.TotalChildren)))
		}
		line2 := truncate(strings.Join(meta, " "), innerW)

		st := cardStyle
		if selected {
			st = cardSelectedStyle
		}
		return st.Render(line1) + "\n" + st.Render(line2) + "\n" + strings.Repeat(" ", colW)
	}

	rendered := make([]string, 0, n)
	for ci, col := range k.Columns {
		hs := headerStyle
		if ci == sel.Col {
			hs = headerSelectedStyle
		}
		header := hs.Width(colW).Render(fitWidth(fmt.Sprintf(" %s (%d)", col.Label, col.Count), colW))
		lines := []string{header, ""}
		for ii, card := range col.Cards {
			lines = append(lines, renderCard(card, ci == sel.Col && ii == sel.Card))
		}
		if len(col.Cards) == 0 {
			lines = append(lines, muted.Render(fitWidth("  (empty)", colW)))
		}
		rendered = append(rendered, normalizePane(strings.Join(lines, "\n"), colW, height))
	}

	gap := normalizePane(strings.Repeat(strings.Repeat(" ", columnGap)+"\n", height), columnGap, height)
	parts := make([]string, 0, n*2)
	for i, col := range rendered {
		if i > 0 {
			parts = append(parts, gap)
		}
		parts = append(parts, col)
	}
	return normalizePane(lipgloss.JoinHorizontal(lipgloss.Top, parts...), width, height)
}

// handleKanbanMouse drags a card between columns: press on a card, release over a
// column.
func (m *appModel) handleKanbanMouse(msg tea.MouseMsg, x, y int) tea.Cmd {
	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionRelease {
		return nil
	}
	k := m.s.Kanban()
	width := m.bodyWidth()
	switch msg.Action {
	case tea.MouseActionPress:
		ci, ok := columnAt(len(k.Columns), width, x)
		if !ok {
			return nil
		}
		ii, ok := cardAt(y, len(k.Columns[ci].Cards))
		if !ok {
			return nil
		}
		id := k.Columns[ci].Cards[ii].Task.ID
		m.board = boardSelection{Col: ci, Card: ii, TaskID: id}
		m.mouse = mouseState{down: true, x: x, y: y, card: id}
	case tea.MouseActionRelease:
		card := m.mouse.card
		m.mouse = mouseState{}
		if card == "" {
			return nil
		}
		ci, ok := columnAt(len(k.Columns), width, x)
		if !ok {
			return nil
		}
		return m.dispatch(session.DropTask{TaskID: card, Column: k.Columns[ci].Status}, "")
	}
	return nil
}
