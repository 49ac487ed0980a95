package render

import (
	"context"
	"fmt"
	"io"

	"github.com/matzehuels/shinier/pkg/errors"
	"github.com/matzehuels/shinier/pkg/graph"
	shinierio "github.com/matzehuels/shinier/pkg/io"
	"github.com/matzehuels/shinier/pkg/render/nodelink"
	"github.com/matzehuels/shinier/pkg/render/tree"
)

// Output formats understood by [Write].
const (
	FormatTree = "tree"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// Formats lists every format [Write] accepts.
var Formats = []string{FormatTree, FormatJSON, FormatYAML, FormatDOT, FormatSVG}

// ContentType returns the media type of a format.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	case FormatDOT:
		return "text/vnd.graphviz"
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Write encodes g in the given format. Unknown formats fail with
// INVALID_FORMAT before anything is written.
func Write(ctx context.Context, w io.Writer, g *graph.Graph, format string) error {
	if err := errors.ValidateFormat(format, Formats...); err != nil {
		return err
	}
	switch format {
	case FormatJSON:
		return shinierio.WriteJSON(g, w)
	case FormatYAML:
		return shinierio.WriteYAML(g, w)
	case FormatDOT:
		_, err := io.WriteString(w, nodelink.ToDOT(g, nodelink.Options{}))
		return err
	case FormatSVG:
		svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(g, nodelink.Options{}))
		if err != nil {
			return err
		}
		_, err = w.Write(svg)
		return err
	default:
		_, err := fmt.Fprintln(w, tree.Render(g))
		return err
	}
}
