package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"zenflow/internal/model"
	"zenflow/internal/session"
	"zenflow/internal/statusutil"

	"github.com/spf13/cobra"
)

func newAddCmd(app *App) *cobra.Command {
	var (
		view   string
		parent string
	)
	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Create a task from a natural-language sentence",
		Long: strings.TrimSpace(`
Run the quick-entry pipeline once: the sentence is parsed into a title, priority,
due date and tags (by the AI collaborator when configured, otherwise verbatim) and
the resulting task is printed.

With --parent the task is also placed on the mind map as a child of that node.
`),
		Example: strings.TrimSpace(`
zenflow add "Finish the report by Friday #work urgent"
zenflow add "Load test the API" --parent n4 --format text
`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return writeErr(cmd, errors.New("add: empty text"))
			}
			s, err := newSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			v := model.ViewList
			if parent != "" {
				v = model.ViewMindMap
			} else if strings.TrimSpace(view) != "" {
				if v, err = statusutil.ParseView(view); err != nil {
					return writeErr(cmd, err)
				}
			}
			s.Dispatch(session.SetView{View: v})

			var open session.Command = session.OpenQuickEntry{}
			if parent != "" {
				open = session.AddChild{ParentNodeID: parent}
			}
			if res, _ := s.Dispatch(open); res.NotFound {
				return writeErr(cmd, errNotFound("node", parent))
			}

			res := s.Run(cmd.Context(), session.SubmitQuickEntry{Text: text})
			if res.Err != nil {
				return writeErr(cmd, res.Err)
			}
			if len(res.Tasks) == 0 {
				return writeErr(cmd, errors.New("add: no task created"))
			}
			t := res.Tasks[0]
			out := map[string]any{"task": t}
			if len(res.Nodes) > 0 {
				out["node"] = res.Nodes[0]
			}
			return writeOut(cmd, app, map[string]any{
				"data":   out,
				"meta":   map[string]any{"ai": app.cfg.AIAvailable()},
				"_hints": []string{"zenflow views list --format text"},
			}, func(w io.Writer) error {
				fmt.Fprintf(w, "%s %s\n", green("created"), bold(t.Title))
				fmt.Fprintf(w, "  %s %s  %s %s\n", dim("priority"), colorPriority(t.Priority), dim("status"), colorStatus(t.Status))
				fmt.Fprintf(w, "  %s %s → %s\n", dim("dates"), t.StartDate, t.DueDate)
				if len(t.Tags) > 0 {
					fmt.Fprintf(w, "  %s %s\n", dim("tags"), strings.Join(t.Tags, ", "))
				}
				if sp := t.SprintLabel(); sp != "" {
					fmt.Fprintf(w, "  %s %s\n", dim("sprint"), sp)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&view, "view", "", "View the entry is made from (list|kanban|gantt|mindmap|flowchart)")
	cmd.Flags().StringVar(&parent, "parent", "", "Mind map node to attach the new task under")
	return cmd
}
