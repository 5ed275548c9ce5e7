package cli

import (
	"fmt"
	"io"
	"strings"

	"zenflow/internal/model"
	"zenflow/internal/projector"
	"zenflow/internal/session"
	"zenflow/internal/statusutil"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	bold      = color.New(color.Bold).SprintFunc()
	dim       = color.New(color.Faint).SprintFunc()
	boldCyan  = color.New(color.Bold, color.FgCyan).SprintFunc()
	green     = color.New(color.FgGreen).SprintFunc()
	yellow    = color.New(color.FgYellow).SprintFunc()
	blue      = color.New(color.FgBlue).SprintFunc()
	red       = color.New(color.FgRed).SprintFunc()
	boldRed   = color.New(color.Bold, color.FgRed).SprintFunc()
	magenta   = color.New(color.FgMagenta).SprintFunc()
	statusFns = map[model.Status]func(a ...interface{}) string{
		model.StatusDone:       green,
		model.StatusInProgress: yellow,
		model.StatusTodo:       blue,
		model.StatusBacklog:    dim,
	}
)

func colorStatus(s model.Status) string {
	return paintStatus(s, string(s))
}

func paintStatus(s model.Status, text string) string {
	if fn, ok := statusFns[s]; ok {
		return fn(text)
	}
	return text
}

func colorPriority(p model.Priority) string {
	switch p {
	case model.PriorityUrgent:
		return boldRed(string(p))
	case model.PriorityHigh:
		return red(string(p))
	case model.PriorityLow:
		return dim(string(p))
	}
	return string(p)
}

func newViewsCmd(app *App) *cobra.Command {
	var (
		status   string
		priority string
		sprint   string
		search   string
	)
	cmd := &cobra.Command{
		Use:   "views <mindmap|flowchart|list|kanban|gantt>",
		Short: "Print a view projection of the demo session",
		Args:  cobra.ExactArgs(1),
		Example: strings.TrimSpace(`
zenflow views kanban --format text
zenflow views list --status todo --format yaml
zenflow views gantt --pretty
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := statusutil.ParseView(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := newSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			f, err := listFilter(status, priority, sprint, search)
			if err != nil {
				return writeErr(cmd, err)
			}
			s.Dispatch(session.SetFilter{Filter: f})
			s.Dispatch(session.SetView{View: view})

			data, text := projectView(s, view)
			return writeOut(cmd, app, map[string]any{
				"data": data,
				"meta": map[string]any{"view": view, "tasks": len(s.Tasks())},
			}, text)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "List filter: status")
	cmd.Flags().StringVar(&priority, "priority", "", "List filter: priority")
	cmd.Flags().StringVar(&sprint, "sprint", "", "List filter: sprint")
	cmd.Flags().StringVar(&search, "search", "", "List filter: title substring")
	return cmd
}

func listFilter(status, priority, sprint, search string) (projector.ListFilter, error) {
	var f projector.ListFilter
	if strings.TrimSpace(status) != "" {
		st, err := statusutil.ParseStatus(status)
		if err != nil {
			return f, err
		}
		f.Status = &st
	}
	if strings.TrimSpace(priority) != "" {
		p, err := statusutil.ParsePriority(priority)
		if err != nil {
			return f, err
		}
		f.Priority = &p
	}
	if sprint != "" {
		f.Sprint = &sprint
	}
	f.Search = search
	return f, nil
}

// projectView returns the projection for view and its text renderer.
func projectView(s *session.Session, view model.ViewType) (any, func(io.Writer) error) {
	switch view {
	case model.ViewKanban:
		k := s.Kanban()
		return k, func(w io.Writer) error { return writeKanbanText(w, k) }
	case model.ViewList:
		rows := s.List()
		return rows, func(w io.Writer) error { return writeListText(w, rows) }
	case model.ViewGantt:
		g := s.Gantt()
		return g, func(w io.Writer) error { return writeGanttText(w, g) }
	default:
		d, _ := s.Diagram(view)
		return d, func(w io.Writer) error { return writeDiagramText(w, d) }
	}
}

func writeKanbanText(w io.Writer, k projector.Kanban) error {
	for i, col := range k.Columns {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s %s\n", boldCyan(col.Label), dim(fmt.Sprintf("(%d)", col.Count)))
		if len(col.Cards) == 0 {
			fmt.Fprintln(w, dim("  (empty)"))
		}
		for _, card := range col.Cards {
			t := card.Task
			line := fmt.Sprintf("  %s  %s", bold(t.Title), colorPriority(t.Priority))
			if t.DueDate != "" {
				line += "  " + dim("due "+t.DueDate)
			}
			if card.TotalChildren > 0 {
				line += "  " + dim(fmt.Sprintf("[%d/%d]", card.DoneChildren, card.TotalChildren))
			}
			fmt.Fprintln(w, line)
		}
	}
	return nil
}

func writeListText(w io.Writer, rows []projector.ListRow) error {
	if len(rows) == 0 {
		fmt.Fprintln(w, dim("no matching tasks"))
		return nil
	}
	for _, r := range rows {
		t := r.Task
		box := "[ ]"
		if t.Status == model.StatusDone {
			box = green("[x]")
		}
		meta := []string{colorStatus(t.Status), colorPriority(t.Priority)}
		if t.DueDate != "" {
			meta = append(meta, dim(t.DueDate))
		}
		if sp := t.SprintLabel(); sp != "" {
			meta = append(meta, magenta(sp))
		}
		for _, tag := range t.Tags {
			meta = append(meta, dim("#"+tag))
		}
		fmt.Fprintf(w, "%s%s %s  %s\n", strings.Repeat("  ", r.Depth), box, t.Title, strings.Join(meta, " "))
	}
	return nil
}

const ganttTextWidth = 60

func writeGanttText(w io.Writer, g projector.Gantt) error {
	if len(g.Bars) == 0 {
		fmt.Fprintln(w, dim("no scheduled tasks"))
		return nil
	}
	fmt.Fprintf(w, "%s %s %s %s\n", bold("Timeline"), g.Start, dim("→"), g.End)
	scale := float64(ganttTextWidth) / g.WidthPx()
	for _, b := range g.Bars {
		start := int(b.OffsetPx * scale)
		length := max(int(b.WidthPx*scale), 1)
		length = min(length, ganttTextWidth-start)
		fill := "#"
		if b.Done {
			fill = "="
		}
		bar := strings.Repeat(" ", start) + paintStatus(b.Task.Status, strings.Repeat(fill, max(length, 1)))
		fmt.Fprintf(w, "%-28s %s\n", truncateText(b.Task.Title, 28), bar)
	}
	return nil
}

func writeDiagramText(w io.Writer, d projector.Diagram) error {
	labels := map[string]string{}
	for _, nv := range d.Nodes {
		n := nv.Node
		labels[n.ID] = n.Data.Label
		line := fmt.Sprintf("%s %s %s", dim(n.ID), bold(n.Data.Label), dim(fmt.Sprintf("(%.0f, %.0f)", n.Position.X, n.Position.Y)))
		if b := n.Data.Bridge; b != nil {
			line += fmt.Sprintf("  %s %s %s", b.TaskID, colorStatus(b.Status), b.Level)
		}
		fmt.Fprintln(w, line)
	}
	if len(d.Edges) > 0 {
		fmt.Fprintln(w)
	}
	for _, e := range d.Edges {
		line := fmt.Sprintf("%s → %s", labels[e.Edge.Source], labels[e.Edge.Target])
		if e.Edge.Label != "" {
			line += " " + dim("["+e.Edge.Label+"]")
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

func truncateText(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
