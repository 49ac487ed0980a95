package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/shinier/pkg/config"
	"github.com/matzehuels/shinier/pkg/errors"
	"github.com/matzehuels/shinier/pkg/graph"
	"github.com/matzehuels/shinier/pkg/render"
)

// formatTable is the CLI-only node listing; every other format is
// delegated to render.Write.
const formatTable = "table"

// buildOptions holds flags for the build command.
type buildOptions struct {
	buildFlags
	format string
	output string
}

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	opts := buildOptions{}

	cmd := &cobra.Command{
		Use:   "build [path]",
		Short: "Build the graph of a directory or file",
		Long: `Build walks a directory tree, classifying each entry as a plain file, a
directory or a Python module, and prints the resulting graph.

Directories that contain __init__.py become packages, and modules nested in
packages get their full dotted import path. Symbolic links are resolved so
cycles and duplicate links yield a single node.`,
		Example: `  shinier build ./src
  shinier build ./src --format json -o graph.json
  shinier build ./src --format svg -o graph.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return c.runBuild(cmd.Context(), cmd, root, &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: tree, table, json, yaml, dot, svg (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, cmd *cobra.Command, root string, opts *buildOptions) error {
	format := opts.format
	if format == "" {
		format = c.Config.Output.Format
	}
	if err := errors.ValidateFormat(format, config.Formats...); err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	var spinner *Spinner
	if opts.output != "" {
		spinner = newSpinner(ctx, stderr, "Building graph...")
		spinner.Start()
	}

	prog := newProgress(loggerFromContext(ctx))
	g, err := c.newBuilder(ctx, cmd, &opts.buildFlags).Build(ctx, root)
	if err != nil {
		if spinner != nil {
			spinner.StopWithError("Build failed")
		}
		return err
	}
	prog.done(fmt.Sprintf("Built graph with %d nodes", g.Len()))

	var buf bytes.Buffer
	if err := writeGraph(ctx, &buf, g, format); err != nil {
		if spinner != nil {
			spinner.StopWithError("Render failed")
		}
		return err
	}

	if opts.output == "" {
		_, err := c.out.Write(buf.Bytes())
		return err
	}

	if err := os.WriteFile(opts.output, buf.Bytes(), 0644); err != nil {
		spinner.StopWithError("Write failed")
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", opts.output)
	}
	spinner.StopWithSuccess(fmt.Sprintf("Wrote %s graph", format))
	printFile(stderr, opts.output)
	printStats(stderr, g.Len(), g.EdgeCount())
	return nil
}

// writeGraph renders g in any CLI output format.
func writeGraph(ctx context.Context, w io.Writer, g *graph.Graph, format string) error {
	if format == formatTable {
		_, err := fmt.Fprintln(w, renderTable(g))
		return err
	}
	return render.Write(ctx, w, g, format)
}

// renderTable lists the nodes of g in discovery order.
func renderTable(g *graph.Graph) string {
	parents := make(map[int]int, g.Len())
	for from, children := range g.Edges {
		for _, to := range children {
			parents[to] = from
		}
	}

	rows := make([][]string, 0, g.Len())
	for i, n := range g.Nodes {
		parent := ""
		if p, ok := parents[i]; ok {
			parent = strconv.Itoa(p)
		}
		rows = append(rows, []string{
			strconv.Itoa(i),
			n.Kind().String(),
			n.Name.LongName,
			n.ImportPath().String(),
			parent,
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("#", "Kind", "Name", "Import path", "Parent").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader.Padding(0, 1)
			case col == 3:
				return StyleDotted.Padding(0, 1)
			default:
				return lipgloss.NewStyle().Padding(0, 1)
			}
		}).
		String()
}
