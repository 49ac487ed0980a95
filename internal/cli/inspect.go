package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/shinier/pkg/graph"
	"github.com/matzehuels/shinier/pkg/inspect"
)

// inspectReport is the --json output of the inspect command.
type inspectReport struct {
	Path       string              `json:"path"`
	Module     string              `json:"module"`
	ImportRoot string              `json:"import_root"`
	Signatures []inspect.Signature `json:"signatures"`
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <module>",
		Short: "List the functions and methods of a Python module",
		Long: `Inspect parses a Python module without importing it and lists its
top-level functions and the methods of its top-level classes, with their
parameters, defaults and annotations. A package directory inspects its
__init__.py.`,
		Example: `  shinier inspect pkg/api.py
  shinier inspect pkg --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print signatures as JSON")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, path string, asJSON bool) error {
	logger := loggerFromContext(ctx)

	node, err := graph.NodeFromPath(path)
	if err != nil {
		return err
	}
	sigs, err := inspect.New(logger).Inspect(ctx, node)
	if err != nil {
		return err
	}

	loc := node.Location.(graph.ModuleLocation)
	report := inspectReport{
		Path:       loc.Path,
		Module:     loc.ImportPath.String(),
		ImportRoot: loc.ImportRoot,
		Signatures: sigs,
	}
	if asJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	writeInspectReport(c.out, report)
	return nil
}

func writeInspectReport(w io.Writer, r inspectReport) {
	printKeyValue(w, "Module", StyleDotted.Render(r.Module))
	printKeyValue(w, "Import root", r.ImportRoot)
	printKeyValue(w, "Path", r.Path)

	if len(r.Signatures) == 0 {
		printDetail(w, "no functions or methods")
		return
	}

	rows := make([][]string, 0, len(r.Signatures))
	for _, s := range r.Signatures {
		rows = append(rows, []string{strconv.Itoa(s.Line), s.RefPath, s.String()})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Line", "Object", "Signature").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	fmt.Fprintln(w, t.String())
}
