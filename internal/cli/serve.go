package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/shinier/internal/server"
	"github.com/matzehuels/shinier/pkg/observability"
)

// serveOptions holds flags for the serve command.
type serveOptions struct {
	addr    string
	baseDir string
	noCache bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve graphs and signatures over HTTP",
		Long: `Serve starts an HTTP server that builds graphs and inspects modules below
a base directory on request.

Endpoints:
  GET /healthz
  GET /graph?path=<rel>&format=json|yaml|dot|svg
  GET /inspect?path=<rel>
  GET /metrics

Responses are cached in Redis when serve.redis_addr is configured, and in
the local cache directory otherwise.`,
		Example: `  shinier serve --base-dir ./src
  shinier serve --addr :9000 --no-cache`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg := c.Config.Serve
			if cmd.Flags().Changed("addr") {
				cfg.Addr = opts.addr
			}
			if cmd.Flags().Changed("base-dir") {
				cfg.BaseDir = opts.baseDir
			}

			respCache, err := c.newCache(ctx, opts.noCache)
			if err != nil {
				return err
			}
			defer respCache.Close()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			hooks := observability.NewPrometheusHooks(reg)
			observability.SetBuildHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)

			srv, err := server.New(server.Config{
				Addr:     cfg.Addr,
				BaseDir:  cfg.BaseDir,
				CacheTTL: cfg.CacheTTL.Duration,
				Sorted:   c.Config.Build.Sorted,
				MaxNodes: c.Config.Build.MaxNodes,
			},
				server.WithLogger(logger),
				server.WithCache(respCache),
				server.WithGatherer(reg),
			)
			if err != nil {
				return err
			}

			printInfo(cmd.ErrOrStderr(), "Serving %s on http://%s", srv.BaseDir(), cfg.Addr)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&opts.baseDir, "base-dir", "", "directory requests are resolved against (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable response caching")

	return cmd
}
