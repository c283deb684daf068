package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/tableheatmap/pkg/observability"
	"github.com/matzehuels/tableheatmap/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Long: `Serve exposes POST /render, GET /palettes, GET /settings/{object} and
GET /healthz. The listen address defaults to serve.addr from the config
(":8080").`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.config()
			if addr == "" {
				addr = cfg.Serve.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			hooks := observability.NewLogHooks(c.Logger)
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
			defer observability.Reset()

			opts := []server.Option{
				server.WithLogger(c.Logger),
				server.WithViewport(cfg.Width, cfg.Height),
			}
			if cfg.Serve.MaxBodySize > 0 {
				opts = append(opts, server.WithMaxBodySize(cfg.Serve.MaxBodySize))
			}
			if cfg.Serve.Timeout > 0 {
				opts = append(opts, server.WithTimeout(cfg.Serve.Timeout))
			}

			printInfo("Serving on %s", addr)
			printNextStep("Try", "curl -s localhost"+portOf(addr)+"/palettes")
			return server.New(runner, opts...).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}

// portOf returns the ":port" part of a listen address.
func portOf(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[i:]
		}
	}
	return ""
}
