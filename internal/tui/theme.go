package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"zenflow/internal/model"
)

// Palette. AdaptiveColor keeps every view readable on light and dark terminals; faint
// styling is only applied on dark backgrounds where it stays legible.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted      lipgloss.TerminalColor = ac("240", "243")
	colorSurfaceFg  lipgloss.TerminalColor = ac("235", "252")
	colorControlBg  lipgloss.TerminalColor = ac("252", "235")
	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")
	colorAccent     lipgloss.TerminalColor = ac("27", "62")
	colorAccentFg   lipgloss.TerminalColor = ac("255", "235")
	colorEdge       lipgloss.TerminalColor = ac("250", "239")
	colorError      lipgloss.TerminalColor = ac("160", "203")

	colorDone       lipgloss.TerminalColor = ac("28", "78")
	colorInProgress lipgloss.TerminalColor = ac("130", "214")
	colorTodo       lipgloss.TerminalColor = ac("27", "75")
	colorBacklog    lipgloss.TerminalColor = ac("244", "245")

	colorUrgent lipgloss.TerminalColor = ac("160", "203")
	colorHigh   lipgloss.TerminalColor = ac("130", "214")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func statusColor(s model.Status) lipgloss.TerminalColor {
	switch s {
	case model.StatusDone:
		return colorDone
	case model.StatusInProgress:
		return colorInProgress
	case model.StatusTodo:
		return colorTodo
	default:
		return colorBacklog
	}
}

func priorityStyle(p model.Priority) lipgloss.Style {
	st := lipgloss.NewStyle()
	switch p {
	case model.PriorityUrgent:
		return st.Foreground(colorUrgent).Bold(true)
	case model.PriorityHigh:
		return st.Foreground(colorHigh)
	default:
		return styleMuted()
	}
}

// applyColorProfilePreference sets the Lip Gloss color profile. mode "none" and NO_COLOR
// force plain ASCII output; otherwise the terminal's capabilities are used, upgraded
// when TERM/COLORTERM advertise more than the probe reported.
func applyColorProfilePreference(mode string) {
	if strings.EqualFold(strings.TrimSpace(mode), "none") || strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	term := strings.ToLower(os.Getenv("TERM"))
	colorterm := strings.ToLower(os.Getenv("COLORTERM"))
	switch {
	case profile == termenv.Ascii:
	case strings.Contains(colorterm, "truecolor"), strings.Contains(colorterm, "24bit"):
		profile = termenv.TrueColor
	case strings.Contains(term, "256color") && profile == termenv.ANSI:
		profile = termenv.ANSI256
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference overrides background detection, which some terminals get wrong.
//
// Priority:
// 1) ZENFLOW_TUI_THEME=light|dark
// 2) COLORFGBG ("fg;bg", last segment is the background)
func applyThemePreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ZENFLOW_TUI_THEME"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}
