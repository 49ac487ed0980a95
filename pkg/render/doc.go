// Package render provides visual renderings of traversal graphs.
//
//   - [nodelink]: Graphviz DOT source and SVG diagrams
//   - [tree]: indented text trees for terminal output
//
// [nodelink]: github.com/matzehuels/shinier/pkg/render/nodelink
// [tree]: github.com/matzehuels/shinier/pkg/render/tree
package render
