package tui

import (
	"fmt"
	"strings"

	"zenflow/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// renderDetail is the side pane for the selected task.
func renderDetail(t model.Task, w, h int) string {
	title := lipgloss.NewStyle().Bold(true).Render(t.Title)
	muted := styleMuted()

	rows := [][2]string{
		{"status", lipgloss.NewStyle().Foreground(statusColor(t.Status)).Render(glyphStatus(t.Status) + " " + string(t.Status))},
		{"priority", priorityStyle(t.Priority).Render(string(t.Priority))},
		{"level", string(t.Level)},
		{"dates", fmt.Sprintf("%s %s %s", t.StartDate, glyphArrow(), t.DueDate)},
	}
	if s := t.SprintLabel(); s != "" {
		rows = append(rows, [2]string{"sprint", s})
	}
	if len(t.Tags) > 0 {
		rows = append(rows, [2]string{"tags", strings.Join(t.Tags, ", ")})
	}
	if t.ParentID != nil {
		rows = append(rows, [2]string{"parent", *t.ParentID})
	}

	lines := []string{" " + title, ""}
	for _, r := range rows {
		lines = append(lines, " "+muted.Render(fmt.Sprintf("%-9s", r[0]))+r[1])
	}
	if md := renderMarkdown(t.Description, w-2); md != "" {
		lines = append(lines, "", md)
	}
	return normalizePane(strings.Join(lines, "\n"), w, h)
}

func (m appModel) renderEntry(w int) string {
	boxW := min(max(w-8, 30), 72)
	m.input.Width = boxW - 6

	heading := "Quick entry"
	if parent := m.s.Entry().ParentNodeID; parent != "" {
		heading = "New child of " + nodeLabel(m.s, model.ViewMindMap, parent)
	}
	hint := styleMuted().Render("enter to create, esc to close")
	if m.s.Loading() {
		hint = m.spin.View() + " AI is parsing…"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(1, 2).
		Width(boxW)
	return box.Render(strings.Join([]string{
		lipgloss.NewStyle().Bold(true).Render(heading),
		"",
		m.input.View(),
		"",
		hint,
	}, "\n"))
}
