package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/shinier/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the dotted import path and the filesystem path to node
	// labels. When false, only the long name is shown.
	Detailed bool
}

// ToDOT converts a graph to Graphviz DOT format for node-link visualization.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Node identifiers are "n<index>". Module nodes are filled light blue and
// object nodes are drawn as ellipses, so the package hierarchy stands out
// from plain files.
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for i, n := range g.Nodes {
		label := fmtLabel(n, opts.Detailed)
		attrs := fmtAttrs(n, label)
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeID(i), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, from := range g.SortedEdgeKeys() {
		for _, to := range g.Edges[from] {
			fmt.Fprintf(&buf, "  %s -> %s;\n", nodeID(from), nodeID(to))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(i int) string { return "n" + strconv.Itoa(i) }

func fmtLabel(n graph.Node, detailed bool) string {
	if !detailed {
		return n.Name.LongName
	}

	var parts []string
	if p := n.ImportPath(); len(p) > 0 {
		parts = append(parts, p.String())
	}
	if l, ok := n.Location.(graph.ObjectLocation); ok {
		parts = append(parts, "ref: "+l.RefPath.String())
	}
	parts = append(parts, n.Path())
	return n.Name.LongName + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n graph.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch n.Kind() {
	case graph.KindModule:
		attrs = append(attrs, "fillcolor=lightblue")
	case graph.KindObject:
		attrs = append(attrs, "shape=ellipse", "fillcolor=lightyellow")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing scales with its
// container instead of using Graphviz's point dimensions.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
