// Package io provides JSON and YAML import and export for traversal graphs.
//
// # Overview
//
// A [graph.Graph] is written as two top-level fields: the node list in
// discovery order and the edge map keyed by parent index. The format is
// meant for:
//
//   - Feeding external tools that visualize or query package layouts
//   - Caching built graphs (the HTTP server stores encoded responses)
//   - Round-trip preservation: export, re-import, and compare equal
//
// # JSON Format
//
//	{
//	  "nodes": [
//	    {"kind": "module", "path": "/src/pkg/__init__.py",
//	     "import_root": "/src", "import_path": ["pkg"],
//	     "short_name": "pkg", "long_name": "pkg", "aliases": []},
//	    {"kind": "filesystem", "path": "/src/pkg/data.csv",
//	     "short_name": "data", "long_name": "data.csv", "aliases": []}
//	  ],
//	  "edges": {"0": [1]}
//	}
//
// # Node Fields
//
// Required:
//   - kind: "filesystem", "module" or "object"
//   - path: filesystem path backing the node
//
// Module and object nodes:
//   - import_root: directory the dotted path is relative to
//   - import_path: dotted path segments
//
// Object nodes:
//   - ref_path: path of the object inside its module
//
// Names:
//   - short_name, long_name, aliases
//
// The kind field selects the location variant. Unknown kinds are rejected
// with INVALID_FORMAT, as are graphs that fail [graph.Graph.Validate].
//
// # Import
//
//	g, err := io.ImportJSON("graph.json")
//
// # Export
//
//	err := io.ExportJSON(g, "graph.json")
//	err = io.WriteYAML(g, os.Stdout)
package io
