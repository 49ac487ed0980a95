package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/shinier/pkg/buildinfo"
	"github.com/matzehuels/shinier/pkg/cache"
	"github.com/matzehuels/shinier/pkg/config"
	"github.com/matzehuels/shinier/pkg/graph"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "shinier"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	out io.Writer
}

// New creates a new CLI instance with a default logger and default config.
// Logs go to w; command output goes to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// LoadConfig reads the config file at path (empty for the default
// location) into c.Config.
func (c *CLI) LoadConfig(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Shinier maps Python source trees into graphs",
		Long:          `Shinier walks a directory tree and builds a graph of its files, directories and the Python packages and modules embedded in it, resolving symbolic links and import paths along the way.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Builder Factory
// =============================================================================

// buildFlags are the traversal flags shared by build, browse and watch.
type buildFlags struct {
	unsorted bool
	maxNodes int
}

func (f *buildFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.unsorted, "unsorted", false, "expand directory entries in filesystem order")
	cmd.Flags().IntVar(&f.maxNodes, "max-nodes", 0, "abort when the graph exceeds this many nodes (0 = unlimited)")
}

// newBuilder combines config values with flags that were set explicitly.
func (c *CLI) newBuilder(ctx context.Context, cmd *cobra.Command, f *buildFlags) *graph.Builder {
	sorted := c.Config.Build.Sorted
	if cmd.Flags().Changed("unsorted") {
		sorted = !f.unsorted
	}
	maxNodes := c.Config.Build.MaxNodes
	if cmd.Flags().Changed("max-nodes") {
		maxNodes = f.maxNodes
	}
	return graph.NewBuilder(
		graph.WithLogger(loggerFromContext(ctx)),
		graph.WithSortedChildren(sorted),
		graph.WithMaxNodes(maxNodes),
	)
}

// =============================================================================
// Cache Factory
// =============================================================================

// newCache returns the response cache for the server: Redis when an
// address is configured, the file cache otherwise, and no cache at all
// when disabled.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if addr := c.Config.Serve.RedisAddr; addr != "" {
		rc, err := cache.NewRedisCache(ctx, addr)
		if err != nil {
			return nil, err
		}
		return cache.NewScoped(rc, appName+":"), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/shinier/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
