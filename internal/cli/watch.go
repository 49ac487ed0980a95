package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shinier/pkg/watch"
)

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		flags    buildFlags
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Rebuild the graph whenever the tree changes",
		Long: `Watch builds the graph of a directory, then rebuilds it after every burst
of filesystem changes and logs the node and edge counts. Press Ctrl+C to
stop.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			opts := watch.Options{
				Debounce: c.Config.Watch.Debounce.Duration,
				Ignore:   c.Config.Watch.Ignore,
				Logger:   logger,
			}
			if cmd.Flags().Changed("debounce") {
				opts.Debounce = debounce
			}

			w, err := watch.New(root, c.newBuilder(ctx, cmd, &flags), func(r watch.Result) {
				if r.Err != nil {
					logger.Error("rebuild failed", "err", r.Err)
					return
				}
				logger.Info("rebuilt graph",
					"nodes", r.Graph.Len(),
					"edges", r.Graph.EdgeCount(),
					"changes", len(r.Changes))
				for _, ch := range r.Changes {
					logger.Debug("changed", "op", ch.Op, "path", ch.Path)
				}
			}, opts)
			if err != nil {
				return err
			}
			if err := w.Start(ctx); err != nil {
				return err
			}
			defer w.Stop()

			printInfo(cmd.ErrOrStderr(), "Watching %s", root)
			<-ctx.Done()
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before a rebuild (default from config)")

	return cmd
}
