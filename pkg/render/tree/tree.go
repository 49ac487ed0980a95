// Package tree renders traversal graphs as indented text trees for the
// terminal.
//
//	src
//	├── README.md
//	╰── pkg (pkg)
//	    ╰── mod.py (pkg.mod)
package tree

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/matzehuels/shinier/pkg/graph"
)

var (
	styleEnumerator = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginRight(1)
	styleRoot       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	styleDotted     = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
)

// Label returns the display label of a node: its long name, followed by the
// dotted import path for modules and objects.
func Label(n graph.Node) string {
	if p := n.ImportPath(); len(p) > 0 {
		return n.Name.LongName + " " + styleDotted.Render("("+p.String()+")")
	}
	return n.Name.LongName
}

// Render draws the discovery tree of g from the root. Only recorded edges
// are followed, so every node appears exactly once.
func Render(g *graph.Graph) string {
	if g.Len() == 0 {
		return ""
	}
	t := tree.Root(Label(g.Root())).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(styleEnumerator).
		RootStyle(styleRoot)
	addChildren(t, g, 0)
	return t.String()
}

func addChildren(t *tree.Tree, g *graph.Graph, i int) {
	for _, c := range g.Children(i) {
		if len(g.Children(c)) == 0 {
			t.Child(Label(g.Nodes[c]))
			continue
		}
		sub := tree.Root(Label(g.Nodes[c]))
		addChildren(sub, g, c)
		t.Child(sub)
	}
}
