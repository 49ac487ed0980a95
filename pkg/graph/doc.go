// Package graph builds a deduplicated directed graph of a filesystem subtree
// and the Python package hierarchy embedded within it.
//
// # Overview
//
// A [Graph] holds typed [Node] values in discovery order plus parent→child
// edges keyed by node index. Nodes come in three kinds, carried by their
// [Location]:
//
//   - [FilesystemLocation]: a plain file or directory
//   - [ModuleLocation]: an importable Python module or package, with the
//     directory it is imported from and its dotted [DotPath]
//   - [ObjectLocation]: an object inside a module (produced by the
//     signature inspector, never by traversal)
//
// Location is a closed set: the unexported marker method keeps other packages
// from adding variants, and every switch over it in this package is
// exhaustive.
//
// # Classification
//
// [Classifier.Classify] looks at one path and decides its kind. Symbolic
// links are resolved to their real target first. A directory holding an
// `__init__.py` is a package and is represented by that init file; a `.py`
// file is a module; everything else is a plain filesystem entry.
//
// Dotted import paths are computed without any registry by climbing parent
// directories for as long as they are packages:
//
//	root/dir_0/__init__.py
//	root/dir_0/dir_1/__init__.py
//	root/dir_0/dir_1/file_0.py   ->  import_root=root, path=dir_0.dir_1.file_0
//
// # Building
//
// [Build] runs a breadth-first traversal from one root path. Each node is
// expanded once; a child that is value-equal to an existing node is dropped
// and no edge is recorded for it, so edges only mark first discovery. Because
// symlinks are canonicalized before nodes are created, a link pointing back
// at an ancestor yields an existing node and the frontier cannot regrow. This
// is what makes traversal terminate on cyclic trees.
//
//	g, err := graph.Build(ctx, "src/mypkg", graph.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	for i, n := range g.Nodes {
//	    fmt.Println(i, n.Kind(), n.Name.LongName, g.Edges[i])
//	}
//
// A build is all-or-nothing: any classification failure aborts it and no
// partial graph is returned.
//
// # Concurrency
//
// A build runs on the calling goroutine and owns its Graph exclusively. The
// returned Graph must be treated as read-only; it is then safe for concurrent
// readers.
package graph
