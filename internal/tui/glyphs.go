package tui

import (
	"strings"
	"sync"

	"zenflow/internal/model"
)

// Some fonts render box and status glyphs poorly; tui.glyphs=ascii swaps in plain
// characters everywhere.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference selects a glyph set by name. Unknown names keep the current set.
func applyGlyphPreference(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	defer glyphsMu.RUnlock()
	return currentGlyphs
}

func pick(unicode, ascii string) string {
	if glyphs() == glyphSetASCII {
		return ascii
	}
	return unicode
}

func glyphTwisty() string   { return pick("▾", "v") }
func glyphBullet() string   { return pick("•", "*") }
func glyphArrow() string    { return pick("→", "->") }
func glyphHRule() string    { return pick("─", "-") }
func glyphEdgeDot() string  { return pick("·", ".") }
func glyphBarFill() string  { return pick("█", "#") }
func glyphBarEmpty() string { return pick("░", "=") }

func glyphCheckbox(done bool) string {
	if done {
		return pick("☑", "[x]")
	}
	return pick("☐", "[ ]")
}

// glyphStatus marks a bridged node or card with its task status.
func glyphStatus(s model.Status) string {
	switch s {
	case model.StatusDone:
		return pick("●", "(x)")
	case model.StatusInProgress:
		return pick("◐", "(~)")
	case model.StatusTodo:
		return pick("○", "( )")
	default:
		return pick("◌", "(.)")
	}
}
