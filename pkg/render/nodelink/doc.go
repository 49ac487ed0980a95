// Package nodelink renders traversal graphs as node-link diagrams.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: when true, labels include the dotted import path and the
//     filesystem path below the long name
//
// # DOT Format
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) with rounded box
// nodes. Edges follow discovery order, so the drawing is the spanning tree
// the traversal produced. The DOT source can be saved and processed with
// external Graphviz tools.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink
