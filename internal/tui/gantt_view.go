package tui

import (
	"math"
	"strings"
	"time"

	"zenflow/internal/model"
	"zenflow/internal/projector"

	"github.com/charmbracelet/lipgloss"
)

const ganttLabelW = 24

// renderGantt draws one bar per task. The timeline is rescaled to the available columns.
func renderGantt(g projector.Gantt, sel int, now time.Time, w, h int) string {
	if len(g.Bars) == 0 {
		return normalizePane(styleMuted().Render("  no scheduled tasks"), w, h)
	}
	trackW := max(w-ganttLabelW-1, 10)
	total := g.WidthPx()
	colsPerPx := float64(trackW) / total

	muted := styleMuted()
	lines := make([]string, 0, len(g.Bars)+2)
	axis := fitWidth("", ganttLabelW) + " " + fitWidth(
		g.Start+strings.Repeat(" ", max(trackW-len(g.Start)-len(g.End), 1))+g.End, trackW)
	lines = append(lines, muted.Render(axis))

	today := -1
	if start, ok := model.ParseDate(g.Start); ok {
		if off := model.DaysBetween(start, now); off >= 0 && off < g.TotalDays {
			today = int(math.Floor(float64(off) * g.Scale.PxPerDay * colsPerPx))
		}
	}

	selectedStyle := lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
	for i, bar := range g.Bars {
		label := fitWidth(" "+bar.Task.Title, ganttLabelW)
		if i == sel {
			label = selectedStyle.Render(label)
		}
		start := int(math.Floor(bar.OffsetPx * colsPerPx))
		length := max(int(math.Round(bar.WidthPx*colsPerPx)), 1)

		track := make([]string, trackW)
		for x := range track {
			track[x] = " "
			if x == today {
				track[x] = muted.Render("│")
			}
		}
		fill := glyphBarFill()
		if bar.Done {
			fill = glyphBarEmpty()
		}
		barStyle := lipgloss.NewStyle().Foreground(statusColor(bar.Task.Status))
		for x := start; x < start+length && x < trackW; x++ {
			if x >= 0 {
				track[x] = barStyle.Render(fill)
			}
		}
		lines = append(lines, label+" "+strings.Join(track, ""))
	}
	start := 0
	if sel >= h-1 {
		start = sel - h + 2
	}
	if start > 0 {
		lines = append(lines[:1], lines[1+start:]...)
	}
	return normalizePane(strings.Join(lines, "\n"), w, h)
}
