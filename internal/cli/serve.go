package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/parttree/pkg/server"
	"github.com/matzehuels/parttree/pkg/source/inventree"
)

// serveCommand runs the HTTP service that backs the InvenTree panel.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		listen  string
		origins []string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve diagrams and the hierarchy panel over HTTP",
		Long: `Serve diagrams and the hierarchy panel over HTTP.

Endpoints:
  GET  /api/diagram/{part}   Mermaid text
  GET  /api/svg/{part}       Graphviz SVG (Mermaid text on failure)
  GET  /api/tree/{part}      hierarchy JSON
  GET  /api/metrics/{part}   counts and lint findings
  POST /api/diagram          Mermaid text for a posted hierarchy
  GET  /panel/{part}         HTML panel

Query parameters max_depth, substitutes, refresh and direction override
the configured defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if listen == "" {
				listen = c.Config.Server.Listen
			}
			if len(origins) == 0 {
				origins = c.Config.Server.CORSOrigins
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			// PageLinker must stay a nil interface when no host is set.
			var pages server.PageLinker
			if client, ok := runner.Host.(*inventree.Client); ok {
				pages = client
			} else {
				printWarning("No InvenTree host configured; only POST /api/diagram will work")
			}

			srv := server.New(server.Config{
				Addr:        listen,
				CORSOrigins: origins,
				MaxDepth:    c.Config.MaxDepth,
				Substitutes: c.Config.Substitutes,
				Direction:   c.Config.Direction,
				Logger:      c.Logger,
			}, runner, pages)

			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "address to listen on (default from config, :8080)")
	cmd.Flags().StringSliceVar(&origins, "cors-origin", nil, "allowed CORS origins (default any)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
