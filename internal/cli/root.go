package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// Execute runs the shinier CLI and returns an error if any command fails.
//
// Global flags:
//   - --verbose (-v): debug-level logging
//   - --config: config file (default $XDG_CONFIG_HOME/shinier/config.toml)
//
// Before any command runs, the config is loaded and the logger is attached
// to the command context, where commands retrieve it with loggerFromContext.
func Execute(ctx context.Context, stderr io.Writer, args []string) error {
	c := New(stderr, LogInfo)
	root := c.rootWithGlobals()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// rootWithGlobals returns the root command with the global flags wired in.
func (c *CLI) rootWithGlobals() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/shinier/config.toml)")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := LogInfo
		if verbose {
			level = LogDebug
		}
		c.SetLogLevel(level)

		if err := c.LoadConfig(configPath); err != nil {
			return err
		}
		c.Logger.Debug("loaded config", "path", configPath, "format", c.Config.Output.Format)
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}
	return root
}
