package tui

import (
	"fmt"
	"strings"

	"zenflow/internal/model"
	"zenflow/internal/projector"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) renderList(w, h int) string {
	rows := m.s.List()
	f := m.s.Filter()
	lines := []string{renderFilterBar(f, len(rows), w)}
	body := renderListRows(rows, m.listSel, w, h-1)
	if body != "" {
		lines = append(lines, body)
	}
	return normalizePane(strings.Join(lines, "\n"), w, h)
}

func renderFilterBar(f projector.ListFilter, n, w int) string {
	muted := styleMuted()
	chip := lipgloss.NewStyle().Foreground(colorAccentFg).Background(colorAccent).Padding(0, 1)
	parts := []string{muted.Render(fmt.Sprintf("%d task(s)", n))}
	if f.Status != nil {
		parts = append(parts, chip.Render("status: "+string(*f.Status)))
	}
	if f.Priority != nil {
		parts = append(parts, chip.Render("priority: "+string(*f.Priority)))
	}
	if f.Sprint != nil {
		parts = append(parts, chip.Render("sprint: "+*f.Sprint))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		parts = append(parts, chip.Render("search: "+s))
	}
	return fitWidth(strings.Join(parts, " "), w)
}

// renderListRows renders the forest with a scrolling window that keeps sel visible.
func renderListRows(rows []projector.ListRow, sel, w, h int) string {
	if h <= 0 {
		return ""
	}
	if len(rows) == 0 {
		return styleMuted().Render(fitWidth("  no matching tasks", w))
	}
	start := 0
	if sel >= h {
		start = sel - h + 1
	}
	end := min(len(rows), start+h)

	selectedStyle := lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
	out := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		line := renderListRow(rows[i], w)
		if i == sel {
			line = selectedStyle.Render(fitWidth(line, w))
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func renderListRow(r projector.ListRow, w int) string {
	t := r.Task
	indent := strings.Repeat("  ", r.Depth)
	twisty := "  "
	switch {
	case r.HasChildren:
		twisty = glyphTwisty() + " "
	case r.Depth > 0:
		twisty = styleMuted().Render(glyphBullet()) + " "
	}
	box := glyphCheckbox(t.Status == model.StatusDone)
	title := t.Title
	if t.Status == model.StatusDone {
		title = styleMuted().Strikethrough(true).Render(title)
	}

	meta := []string{
		lipgloss.NewStyle().Foreground(statusColor(t.Status)).Render(string(t.Status)),
		priorityStyle(t.Priority).Render(string(t.Priority)),
	}
	if t.DueDate != "" {
		meta = append(meta, styleMuted().Render(t.DueDate))
	}
	if s := t.SprintLabel(); s != "" {
		meta = append(meta, styleMuted().Render(s))
	}
	for _, tag := range t.Tags {
		meta = append(meta, styleMuted().Render("#"+tag))
	}

	left := indent + twisty + box + " " + title
	right := strings.Join(meta, " ")
	gap := w - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		return fitWidth(left+"  "+right, w)
	}
	return left + strings.Repeat(" ", gap) + right
}
