// Package pkg provides the core libraries for shinier.
//
// # Overview
//
// Shinier walks a directory tree and the Python package hierarchy embedded
// in it, and builds a deduplicated graph of files, directories and
// importable modules. The pkg directory is organized into these areas:
//
//  1. [graph] - Path classification, node construction and the breadth-first builder
//  2. [inspect] - Static signature extraction from module source
//  3. [io] and [render] - Serialization (JSON, YAML) and views (tree, DOT, SVG)
//  4. [cache], [config], [watch], [observability] - Infrastructure
//  5. [errors] - Structured error codes shared by every package
//
// # Architecture
//
// The typical data flow through shinier:
//
//	Directory or file path
//	         ↓
//	    [graph] package (classify, enumerate children, deduplicate)
//	         ↓
//	    [render] package (tree, JSON, YAML, DOT, SVG)
//	         ↓
//	    CLI output, HTTP response or file
//
// # Quick Start
//
// Build the graph of a source tree and print it as JSON:
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/matzehuels/shinier/pkg/graph"
//	    "github.com/matzehuels/shinier/pkg/io"
//	)
//
//	g, err := graph.Build(context.Background(), "./src")
//	if err != nil {
//	    return err
//	}
//	return io.WriteJSON(g, os.Stdout)
//
// Module nodes carry their dotted import path and the directory it is
// relative to:
//
//	for _, n := range g.Nodes {
//	    if n.Kind() == graph.KindModule {
//	        fmt.Println(n.ImportPath())
//	    }
//	}
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/shinier/pkg/graph
// [inspect]: https://pkg.go.dev/github.com/matzehuels/shinier/pkg/inspect
// [io]: https://pkg.go.dev/github.com/matzehuels/shinier/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/shinier/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/shinier/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/shinier/pkg/config
// [watch]: https://pkg.go.dev/github.com/matzehuels/shinier/pkg/watch
// [observability]: https://pkg.go.dev/github.com/matzehuels/shinier/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/shinier/pkg/errors
package pkg
