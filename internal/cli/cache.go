package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shinier/pkg/cache"
	"github.com/matzehuels/shinier/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local server response cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			stderr := cmd.ErrOrStderr()
			dir, err := cacheDir()
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "get cache dir")
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo(stderr, "Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "open cache %s", dir)
			}
			if err := fc.Clear(); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "clear cache %s", dir)
			}

			printSuccess(stderr, "Cleared cache")
			printDetail(stderr, "Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "get cache dir")
			}
			fmt.Fprintln(c.out, dir)
			return nil
		},
	}
}
