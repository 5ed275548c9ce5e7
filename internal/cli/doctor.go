package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var errDoctorIssuesFound = errors.New("doctor: bridge mismatches found")

func newDoctorCmd(app *App) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that every bridged mind map node agrees with its task",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			report := s.Doctor()

			if err := writeOut(cmd, app, map[string]any{
				"data": report,
				"meta": map[string]any{"issues": len(report)},
			}, func(w io.Writer) error {
				if len(report) == 0 {
					fmt.Fprintln(w, green("ok"), dim("every bridged node matches its task"))
					return nil
				}
				for _, m := range report {
					if m.MissingTask {
						fmt.Fprintf(w, "%s node %s links missing task %s\n", red("!"), m.NodeID, m.TaskID)
						continue
					}
					fmt.Fprintf(w, "%s node %s %s=%s, task %s %s=%s\n", red("!"), m.NodeID, m.Field, m.Node, m.TaskID, m.Field, m.Task)
				}
				return nil
			}); err != nil {
				return err
			}

			if fail && len(report) > 0 {
				return errDoctorIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if mismatches are found")
	return cmd
}
