package io

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/shinier/pkg/errors"
	"github.com/matzehuels/shinier/pkg/graph"
)

func sampleGraph() *graph.Graph {
	return &graph.Graph{
		Nodes: []graph.Node{
			{
				Location: graph.ModuleLocation{Path: "/src/pkg/__init__.py", ImportRoot: "/src", ImportPath: graph.DotPath{"pkg"}},
				Name:     graph.Name{ShortName: "pkg", LongName: "pkg", Aliases: []string{}},
			},
			{
				Location: graph.FilesystemLocation{Path: "/src/pkg/data.csv"},
				Name:     graph.Name{ShortName: "data", LongName: "data.csv", Aliases: []string{}},
			},
			{
				Location: graph.ObjectLocation{Path: "/src/pkg/__init__.py", ImportRoot: "/src", ImportPath: graph.DotPath{"pkg"}, RefPath: graph.DotPath{"Client", "get"}},
				Name:     graph.Name{ShortName: "get", LongName: "Client.get", Aliases: []string{"fetch"}},
			},
		},
		Edges: map[int][]int{0: {1, 2}},
	}
}

func TestJSONRoundTrip(t *testing.T) {
	g := sampleGraph()

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(g, &buf))

	got, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.True(t, g.Equal(got))
	assert.Equal(t, g.Nodes, got.Nodes)
}

func TestJSONWireFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(sampleGraph(), &buf))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))

	nodes := raw["nodes"].([]any)
	first := nodes[0].(map[string]any)
	assert.Equal(t, "module", first["kind"])
	assert.Equal(t, []any{"pkg"}, first["import_path"])
	assert.NotContains(t, first, "ref_path")

	second := nodes[1].(map[string]any)
	assert.Equal(t, "filesystem", second["kind"])
	assert.NotContains(t, second, "import_root")
	assert.Equal(t, []any{}, second["aliases"])

	edges := raw["edges"].(map[string]any)
	assert.Equal(t, []any{float64(1), float64(2)}, edges["0"])
}

func TestYAMLRoundTrip(t *testing.T) {
	g := sampleGraph()

	var buf bytes.Buffer
	require.NoError(t, WriteYAML(g, &buf))
	assert.Contains(t, buf.String(), "kind: module")

	got, err := ReadYAML(&buf)
	require.NoError(t, err)
	assert.True(t, g.Equal(got))
}

func TestRoundTripBuiltGraph(t *testing.T) {
	tmp, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	pkg := filepath.Join(tmp, "pkg")
	require.NoError(t, os.Mkdir(pkg, 0o755))
	for _, f := range []string{graph.InitFile, "a.py", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(pkg, f), nil, 0o644))
	}

	g, err := graph.Build(context.Background(), pkg)
	require.NoError(t, err)

	path := filepath.Join(tmp, "graph.json")
	require.NoError(t, ExportJSON(g, path))
	got, err := ImportJSON(path)
	require.NoError(t, err)
	assert.True(t, g.Equal(got))
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"nodes": [`},
		{"unknown kind", `{"nodes": [{"kind": "symlink", "path": "/a"}], "edges": {}}`},
		{"missing path", `{"nodes": [{"kind": "filesystem"}], "edges": {}}`},
		{"empty graph", `{"nodes": [], "edges": {}}`},
		{"duplicate node", `{"nodes": [
			{"kind": "filesystem", "path": "/a", "short_name": "a", "long_name": "a"},
			{"kind": "filesystem", "path": "/a", "short_name": "a", "long_name": "a"}
		], "edges": {}}`},
		{"dangling edge", `{"nodes": [{"kind": "filesystem", "path": "/a"}], "edges": {"0": [4]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ReadJSON(strings.NewReader(tt.input))
			assert.Nil(t, g)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
		})
	}
}

func TestImportJSONMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	_, err := ImportJSON(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
	assert.Equal(t, path, errors.PathOf(err))
}
