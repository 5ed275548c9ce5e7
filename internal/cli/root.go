package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"zenflow/internal/claude"
	"zenflow/internal/config"
	"zenflow/internal/format"
	"zenflow/internal/ids"
	"zenflow/internal/projector"
	"zenflow/internal/quickentry"
	"zenflow/internal/session"
	"zenflow/internal/tui"

	"github.com/spf13/cobra"
)

// FormatText is the human-readable output format; commands that support it render
// their own colored text.
const FormatText = "text"

type App struct {
	ConfigFile string
	LogFile    string
	PrettyJSON bool
	Format     string

	cfg      *config.Config
	log      *slog.Logger
	closeLog func() error
	now      func() time.Time
}

func NewRootCmd() *cobra.Command {
	app := &App{now: time.Now}

	cmd := &cobra.Command{
		Use:          "zenflow",
		Short:        "ZenFlow: ideation canvas, flowchart and task views in one session",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  zenflow

  # Print a view of the demo workspace
  zenflow views kanban --format text

  # Turn a sentence into a task
  zenflow add "Draft launch post by Friday #marketing urgent"

  # Serve the JSON API
  zenflow serve --addr 127.0.0.1:7420
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.init()
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.closeLog != nil {
			return app.closeLog()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigFile, "config", envOr("ZENFLOW_CONFIG", ""), "Config file (default: ~/.zenflow/config.yaml, then ./.zenflow/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", "", "Write structured logs to this file (overrides log.file)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("ZENFLOW_FORMAT", "json"), "Output format (json|edn|yaml|text)")

	cmd.AddCommand(newViewsCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDoctorCmd(app))

	return cmd
}

func (app *App) init() error {
	cfg, err := config.Load(config.Sources{File: app.ConfigFile})
	if err != nil {
		return err
	}
	if app.LogFile != "" {
		cfg.Log.File = app.LogFile
	}
	app.cfg = cfg
	log, closeLog, err := newLogger(cfg.Log, nil)
	if err != nil {
		return err
	}
	app.log, app.closeLog = log, closeLog
	return nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	s, err := newSession(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	return tui.Run(cmd.Context(), tui.Options{
		Session: s,
		Glyphs:  app.cfg.TUI.Glyphs,
		Color:   app.cfg.TUI.Color,
		Logger:  app.log,
	})
}

// newSession wires config into a seeded session. Without an API key the quick-entry
// pipeline runs on its fallbacks alone.
func newSession(app *App) (*session.Session, error) {
	cfg := app.cfg
	opts := []quickentry.Option{
		quickentry.WithClock(app.now),
		quickentry.WithLogger(app.log),
		quickentry.WithTimeout(cfg.AI.Timeout),
		quickentry.WithMaxSuggestions(cfg.Canvas.MaxSuggestions),
	}
	if cfg.AIAvailable() {
		client, err := claude.NewClient(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.MaxTokens)
		if err != nil {
			return nil, err
		}
		opts = append(opts,
			quickentry.WithParser(client),
			quickentry.WithSuggester(client),
			quickentry.WithDecomposer(client),
		)
		app.log.Info("ai collaborator enabled", "model", cfg.AI.Model)
	} else {
		app.log.Info("ai collaborator disabled; using fallbacks")
	}

	return session.New(session.Options{
		DefaultSprint: cfg.Defaults.Sprint,
		NewID:         ids.New,
		Pipeline:      quickentry.New(opts...),
		DragThreshold: cfg.Canvas.DragThreshold,
		ExpandRadius:  cfg.Canvas.ExpandRadius,
		Gantt: projector.GanttScale{
			PxPerDay:  cfg.Gantt.PxPerDay,
			MinBarPx:  cfg.Gantt.MinBarPx,
			PaddingPx: cfg.Gantt.BarPaddingPx,
		},
		Logger: app.log,
		Now:    app.now,
	}), nil
}

// newLogger logs to cfg.File, or to fallback when no file is configured. A nil
// fallback discards.
func newLogger(cfg config.LogConfig, fallback io.Writer) (*slog.Logger, func() error, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, nil, fmt.Errorf("log.level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}
	noop := func() error { return nil }

	if path := strings.TrimSpace(cfg.File); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return slog.New(slog.NewTextHandler(f, opts)), f.Close, nil
	}
	if fallback == nil {
		fallback = io.Discard
	}
	return slog.New(slog.NewTextHandler(fallback, opts)), noop, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// writeOut prints v in the selected format. text renders the human form; commands
// without one fall back to YAML.
func writeOut(cmd *cobra.Command, app *App, v any, text func(io.Writer) error) error {
	if strings.EqualFold(app.Format, FormatText) {
		if text != nil {
			return text(cmd.OutOrStdout())
		}
		return format.WriteYAML(cmd.OutOrStdout(), v)
	}
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
