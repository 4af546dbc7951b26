package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/seqtracks/pkg/server"
)

// serveCommand creates the HTTP API command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve tracks over HTTP",
		Long: `Serve the track API.

  GET /api/v1/tracks/{accession}   populated track tree as JSON
  GET /api/v1/sources              enabled sources
  GET /healthz                     liveness probe

The address defaults to the [server] addr setting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			rt, err := c.newRuntime(cmd.Context(), cfg, loadOptions{noCache: noCache})
			if err != nil {
				return err
			}
			defer rt.Close()

			return server.New(rt.manager, c.Logger).ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the response cache")
	return cmd
}
