package tree

import (
	"strings"
	"testing"

	"github.com/matzehuels/shinier/pkg/graph"
)

func TestRender(t *testing.T) {
	g := &graph.Graph{
		Nodes: []graph.Node{
			{Location: graph.FilesystemLocation{Path: "/src"}, Name: graph.Name{LongName: "src"}},
			{Location: graph.FilesystemLocation{Path: "/src/README.md"}, Name: graph.Name{LongName: "README.md"}},
			{
				Location: graph.ModuleLocation{Path: "/src/pkg/__init__.py", ImportRoot: "/src", ImportPath: graph.DotPath{"pkg"}},
				Name:     graph.Name{LongName: "pkg"},
			},
			{
				Location: graph.ModuleLocation{Path: "/src/pkg/mod.py", ImportRoot: "/src", ImportPath: graph.DotPath{"pkg", "mod"}},
				Name:     graph.Name{LongName: "mod.py"},
			},
		},
		Edges: map[int][]int{0: {1, 2}, 2: {3}},
	}

	out := Render(g)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("Render() produced %d lines, want 4:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "src") {
		t.Errorf("first line should be the root: %q", lines[0])
	}
	if !strings.Contains(lines[1], "README.md") {
		t.Errorf("second line = %q", lines[1])
	}
	if !strings.Contains(lines[3], "mod.py") || !strings.Contains(lines[3], "pkg.mod") {
		t.Errorf("nested module line = %q", lines[3])
	}
	if strings.Index(lines[3], "mod.py") <= strings.Index(lines[2], "pkg") {
		t.Errorf("nested module should be indented below its package:\n%s", out)
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := Render(&graph.Graph{}); got != "" {
		t.Errorf("Render() of empty graph = %q", got)
	}
}

func TestLabel(t *testing.T) {
	fs := graph.Node{Location: graph.FilesystemLocation{Path: "/a.txt"}, Name: graph.Name{LongName: "a.txt"}}
	if got := Label(fs); got != "a.txt" {
		t.Errorf("Label() = %q, want %q", got, "a.txt")
	}

	mod := graph.Node{
		Location: graph.ModuleLocation{Path: "/p/m.py", ImportRoot: "/", ImportPath: graph.DotPath{"p", "m"}},
		Name:     graph.Name{LongName: "m.py"},
	}
	if got := Label(mod); !strings.HasPrefix(got, "m.py ") || !strings.Contains(got, "(p.m)") {
		t.Errorf("Label() = %q", got)
	}
}
