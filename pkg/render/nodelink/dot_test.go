package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/shinier/pkg/graph"
)

func testGraph() *graph.Graph {
	return &graph.Graph{
		Nodes: []graph.Node{
			{Location: graph.FilesystemLocation{Path: "/src"}, Name: graph.Name{ShortName: "src", LongName: "src"}},
			{
				Location: graph.ModuleLocation{Path: "/src/pkg/__init__.py", ImportRoot: "/src", ImportPath: graph.DotPath{"pkg"}},
				Name:     graph.Name{ShortName: "pkg", LongName: "pkg"},
			},
			{
				Location: graph.ModuleLocation{Path: "/src/pkg/mod.py", ImportRoot: "/src", ImportPath: graph.DotPath{"pkg", "mod"}},
				Name:     graph.Name{ShortName: "mod", LongName: "mod.py"},
			},
		},
		Edges: map[int][]int{0: {1}, 1: {2}},
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(testGraph(), Options{})

	if !strings.HasPrefix(dot, "digraph G {") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	for _, want := range []string{`n0 [label="src"`, `n2 [label="mod.py"`, "n0 -> n1;", "n1 -> n2;"} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q", want)
		}
	}
	if strings.Contains(dot, "/src/pkg/mod.py") {
		t.Error("ToDOT() simple output should not contain paths")
	}
}

func TestToDOT_EdgeOrder(t *testing.T) {
	g := testGraph()
	g.Edges = map[int][]int{1: {2}, 0: {1}}

	dot := ToDOT(g, Options{})
	if strings.Index(dot, "n0 -> n1") > strings.Index(dot, "n1 -> n2") {
		t.Error("ToDOT() edges should be emitted in parent index order")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(testGraph(), Options{Detailed: true})

	if !strings.Contains(dot, `pkg.mod\n/src/pkg/mod.py`) {
		t.Errorf("ToDOT() detailed output missing dotted path and file path:\n%s", dot)
	}
}

func TestFmtLabel(t *testing.T) {
	obj := graph.Node{
		Location: graph.ObjectLocation{Path: "/m.py", ImportRoot: "/", ImportPath: graph.DotPath{"m"}, RefPath: graph.DotPath{"C", "f"}},
		Name:     graph.Name{ShortName: "f", LongName: "C.f"},
	}

	if got := fmtLabel(obj, false); got != "C.f" {
		t.Errorf("fmtLabel() simple mode = %q, want %q", got, "C.f")
	}
	want := "C.f\nm\nref: C.f\n/m.py"
	if got := fmtLabel(obj, true); got != want {
		t.Errorf("fmtLabel() detailed = %q, want %q", got, want)
	}
}

func TestFmtAttrs(t *testing.T) {
	g := testGraph()

	if attrs := fmtAttrs(g.Nodes[0], "x"); len(attrs) != 1 {
		t.Errorf("fmtAttrs() filesystem node should have 1 attr, got %v", attrs)
	}
	attrs := fmtAttrs(g.Nodes[1], "x")
	if !strings.Contains(strings.Join(attrs, " "), "lightblue") {
		t.Errorf("fmtAttrs() module node missing fill: %v", attrs)
	}
	obj := graph.Node{Location: graph.ObjectLocation{Path: "/m.py"}}
	if attrs := fmtAttrs(obj, "x"); !strings.Contains(strings.Join(attrs, " "), "ellipse") {
		t.Errorf("fmtAttrs() object node missing shape: %v", attrs)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if !strings.HasSuffix(out, "<g/></svg>") {
		t.Errorf("normalizeViewBox() changed body: %s", out)
	}

	plain := []byte("<svg></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox() without viewBox = %s", got)
	}
}
