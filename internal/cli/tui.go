package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/shinier/pkg/graph"
	rtree "github.com/matzehuels/shinier/pkg/render/tree"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "browse [path]",
		Short: "Explore a graph interactively",
		Long: `Browse builds the graph of a directory and opens it in an interactive
explorer. Use the arrow keys to move, enter to descend into a node,
backspace to go back up and q to quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			ctx := cmd.Context()
			g, err := c.newBuilder(ctx, cmd, &flags).Build(ctx, root)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(NewBrowseModel(g), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// =============================================================================
// BrowseModel - Interactive graph explorer
// =============================================================================

// BrowseModel is the bubbletea model for walking a graph one level at a time.
type BrowseModel struct {
	Graph *graph.Graph
	// Trail holds the indices from the root down to the node being listed.
	Trail  []int
	Cursor int
	Height int
	Offset int
}

// NewBrowseModel creates a browse model positioned at the root of g.
func NewBrowseModel(g *graph.Graph) BrowseModel {
	return BrowseModel{
		Graph:  g,
		Trail:  []int{0},
		Height: 15,
	}
}

// Current returns the index of the node whose children are listed.
func (m BrowseModel) Current() int {
	return m.Trail[len(m.Trail)-1]
}

// Selected returns the index of the highlighted child, or -1 when the
// current node has none.
func (m BrowseModel) Selected() int {
	children := m.Graph.Children(m.Current())
	if m.Cursor < 0 || m.Cursor >= len(children) {
		return -1
	}
	return children[m.Cursor]
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		children := m.Graph.Children(m.Current())
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(children)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", "right", "l":
			sel := m.Selected()
			if sel < 0 || len(m.Graph.Children(sel)) == 0 {
				return m, nil
			}
			m.Trail = append(slices.Clone(m.Trail), sel)
			m.Cursor, m.Offset = 0, 0
		case "backspace", "left", "h":
			if len(m.Trail) == 1 {
				return m, nil
			}
			left := m.Current()
			m.Trail = m.Trail[:len(m.Trail)-1]
			m.Cursor = max(slices.Index(m.Graph.Children(m.Current()), left), 0)
			m.Offset = max(m.Cursor-m.Height+1, 0)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m BrowseModel) View() string {
	var b strings.Builder

	crumbs := make([]string, len(m.Trail))
	for i, idx := range m.Trail {
		crumbs[i] = m.Graph.Nodes[idx].Name.LongName
	}
	b.WriteString(StyleTitle.Render(strings.Join(crumbs, " / ")))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  ⌫ back  q quit"))
	b.WriteString("\n\n")

	children := m.Graph.Children(m.Current())
	if len(children) == 0 {
		b.WriteString(listDimStyle.Render("  (empty)"))
		b.WriteString("\n")
	}

	end := min(m.Offset+m.Height, len(children))
	for i := m.Offset; i < end; i++ {
		idx := children[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		marker := " "
		if len(m.Graph.Children(idx)) > 0 {
			marker = "+"
		}
		line := fmt.Sprintf("%s%s %s", cursor, marker, rtree.Label(m.Graph.Nodes[idx]))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if sel := m.Selected(); sel >= 0 {
		n := m.Graph.Nodes[sel]
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %s  %s", n.Kind(), n.Path())))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(children))))
	}

	return b.String()
}
