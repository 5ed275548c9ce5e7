package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to exactly width columns (ANSI-aware) and height lines so
// panes line up when joined.
func normalizePane(s string, width, height int) string {
	width = max(width, 0)
	height = max(height, 0)

	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i, ln := range lines {
		lines[i] = fitWidth(ln, width)
	}
	return strings.Join(lines, "\n")
}

// fitWidth truncates with an ellipsis or pads with spaces to exactly width columns.
func fitWidth(s string, width int) string {
	w := xansi.StringWidth(s)
	switch {
	case width <= 0:
		return ""
	case w > width && width == 1:
		return xansi.Cut(s, 0, 1)
	case w > width:
		s = xansi.Cut(s, 0, width-1) + "…"
		w = xansi.StringWidth(s)
	}
	if w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// truncate shortens s to at most width columns without padding.
func truncate(s string, width int) string {
	if xansi.StringWidth(s) <= width {
		return s
	}
	if width <= 1 {
		return xansi.Cut(s, 0, max(width, 0))
	}
	return xansi.Cut(s, 0, width-1) + "…"
}
