package io

import (
	"github.com/matzehuels/shinier/pkg/errors"
	"github.com/matzehuels/shinier/pkg/graph"
)

type document struct {
	Nodes []node        `json:"nodes" yaml:"nodes"`
	Edges map[int][]int `json:"edges" yaml:"edges"`
}

type node struct {
	Kind       string   `json:"kind" yaml:"kind"`
	Path       string   `json:"path" yaml:"path"`
	ImportRoot string   `json:"import_root,omitempty" yaml:"import_root,omitempty"`
	ImportPath []string `json:"import_path,omitempty" yaml:"import_path,omitempty"`
	RefPath    []string `json:"ref_path,omitempty" yaml:"ref_path,omitempty"`
	ShortName  string   `json:"short_name" yaml:"short_name"`
	LongName   string   `json:"long_name" yaml:"long_name"`
	Aliases    []string `json:"aliases" yaml:"aliases"`
}

func toDocument(g *graph.Graph) document {
	out := document{
		Nodes: make([]node, len(g.Nodes)),
		Edges: make(map[int][]int, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		out.Nodes[i] = toWire(n)
	}
	for k, v := range g.Edges {
		out.Edges[k] = v
	}
	return out
}

func toWire(n graph.Node) node {
	nd := node{
		Kind:      n.Kind().String(),
		Path:      n.Path(),
		ShortName: n.Name.ShortName,
		LongName:  n.Name.LongName,
		Aliases:   n.Name.Aliases,
	}
	if nd.Aliases == nil {
		nd.Aliases = []string{}
	}
	switch l := n.Location.(type) {
	case graph.ModuleLocation:
		nd.ImportRoot = l.ImportRoot
		nd.ImportPath = l.ImportPath
	case graph.ObjectLocation:
		nd.ImportRoot = l.ImportRoot
		nd.ImportPath = l.ImportPath
		nd.RefPath = l.RefPath
	}
	return nd
}

func fromDocument(doc document) (*graph.Graph, error) {
	g := &graph.Graph{
		Nodes: make([]graph.Node, len(doc.Nodes)),
		Edges: make(map[int][]int, len(doc.Edges)),
	}
	for i, nd := range doc.Nodes {
		n, err := fromWire(nd)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "node %d", i)
		}
		g.Nodes[i] = n
	}
	for k, v := range doc.Edges {
		g.Edges[k] = v
	}
	if err := g.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid graph")
	}
	return g, nil
}

func fromWire(nd node) (graph.Node, error) {
	kind, ok := graph.ParseKind(nd.Kind)
	if !ok {
		return graph.Node{}, errors.New(errors.ErrCodeInvalidFormat, "unknown node kind %q", nd.Kind)
	}
	if nd.Path == "" {
		return graph.Node{}, errors.New(errors.ErrCodeInvalidFormat, "node has no path")
	}

	var loc graph.Location
	switch kind {
	case graph.KindFilesystem:
		loc = graph.FilesystemLocation{Path: nd.Path}
	case graph.KindModule:
		loc = graph.ModuleLocation{Path: nd.Path, ImportRoot: nd.ImportRoot, ImportPath: nd.ImportPath}
	case graph.KindObject:
		loc = graph.ObjectLocation{Path: nd.Path, ImportRoot: nd.ImportRoot, ImportPath: nd.ImportPath, RefPath: nd.RefPath}
	}

	aliases := nd.Aliases
	if aliases == nil {
		aliases = []string{}
	}
	return graph.Node{
		Location: loc,
		Name:     graph.Name{ShortName: nd.ShortName, LongName: nd.LongName, Aliases: aliases},
	}, nil
}
