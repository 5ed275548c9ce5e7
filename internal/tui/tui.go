package tui

import (
	"context"
	"log/slog"

	"zenflow/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	Session *session.Session
	// Glyphs is "unicode" or "ascii".
	Glyphs string
	// Color is "auto" or "none".
	Color  string
	Logger *slog.Logger
}

func Run(ctx context.Context, opts Options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	applyColorProfilePreference(opts.Color)
	applyThemePreference()
	applyGlyphPreference(opts.Glyphs)

	m := newAppModel(ctx, opts.Session)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if opts.Logger != nil {
		if err != nil {
			opts.Logger.Error("tui exited", "err", err)
		} else {
			opts.Logger.Debug("tui exited")
		}
	}
	return err
}
