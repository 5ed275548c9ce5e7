package cli

import (
	"os"
	"strings"

	"zenflow/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the session over a JSON API",
		Long: strings.TrimSpace(`
Serve one in-memory session (seeded with the demo workspace) over HTTP.

All handlers share the session under a single lock. Nothing is persisted: stopping
the server discards every change.
`),
		Example: strings.TrimSpace(`
zenflow serve
zenflow serve --addr :7420
curl -s localhost:7420/api/views/kanban
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				listenAddr = app.cfg.Web.Addr
			}
			// A server should be heard: without a log file, log to stderr.
			if strings.TrimSpace(app.cfg.Log.File) == "" {
				log, closeLog, err := newLogger(app.cfg.Log, os.Stderr)
				if err != nil {
					return writeErr(cmd, err)
				}
				app.log, app.closeLog = log, closeLog
			}
			gin.SetMode(gin.ReleaseMode)

			s, err := newSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			srv := web.NewServer(web.ServerConfig{
				Addr:       listenAddr,
				JobTimeout: app.cfg.AI.Timeout,
				Logger:     app.log,
			}, s)
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: web.addr from config)")
	return cmd
}
