package graph

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shinier/pkg/errors"
	"github.com/matzehuels/shinier/pkg/observability"
)

// Option configures a [Builder].
type Option func(*Builder)

// WithLogger sets the logger used for traversal diagnostics. Symlink
// resolution and node discovery are logged at debug level.
func WithLogger(l *log.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithSortedChildren controls whether directory entries are expanded in
// lexical order (the default) or in the order the operating system lists
// them.
func WithSortedChildren(sorted bool) Option {
	return func(b *Builder) { b.sorted = sorted }
}

// WithMaxNodes aborts a build with LIMIT_EXCEEDED once the graph would grow
// beyond n nodes. Zero means unlimited.
func WithMaxNodes(n int) Option {
	return func(b *Builder) { b.maxNodes = n }
}

// WithHooks overrides the globally registered [observability.BuildHooks].
func WithHooks(h observability.BuildHooks) Option {
	return func(b *Builder) { b.hooks = h }
}

// Builder runs breadth-first traversals. A Builder holds configuration only
// and may be reused, sequentially or concurrently, for any number of builds.
type Builder struct {
	logger   *log.Logger
	sorted   bool
	maxNodes int
	hooks    observability.BuildHooks
}

// NewBuilder creates a Builder with the given options applied.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		logger: log.New(io.Discard),
		sorted: true,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build is shorthand for NewBuilder(opts...).Build(ctx, root).
func Build(ctx context.Context, root string, opts ...Option) (*Graph, error) {
	return NewBuilder(opts...).Build(ctx, root)
}

// Build traverses the subtree at root and returns its graph.
//
// Nodes are expanded in index order. For each child of the node under the
// cursor, a child equal to an existing node is skipped; otherwise it is
// appended and an edge from the cursor to its new index is recorded. The
// loop ends when the cursor catches up with the node list.
//
// Any failure aborts the build and returns a nil graph. The context is
// checked between expansion steps; cancellation returns ctx.Err().
func (b *Builder) Build(ctx context.Context, root string) (g *Graph, err error) {
	hooks := b.hooks
	if hooks == nil {
		hooks = observability.Build()
	}
	start := time.Now()
	hooks.OnBuildStart(ctx, root)
	defer func() {
		nodes, edges := 0, 0
		if g != nil {
			nodes, edges = g.Len(), g.EdgeCount()
		}
		hooks.OnBuildComplete(ctx, root, nodes, edges, time.Since(start), err)
	}()

	c := &Classifier{
		logger:    b.logger,
		onResolve: func(from, to string) { hooks.OnSymlinkResolved(ctx, from, to) },
	}

	rootNode, err := c.NodeFromPath(root)
	if err != nil {
		return nil, err
	}

	graph := &Graph{Nodes: []Node{rootNode}, Edges: map[int][]int{}}
	index := map[string]int{rootNode.Key(): 0}

	for cursor := 0; cursor < len(graph.Nodes); cursor++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		children, err := c.children(graph.Nodes[cursor], b.sorted)
		if err != nil {
			return nil, err
		}

		for _, child := range children {
			key := child.Key()
			if _, seen := index[key]; seen {
				continue
			}
			if b.maxNodes > 0 && len(graph.Nodes) >= b.maxNodes {
				return nil, errors.New(errors.ErrCodeLimitExceeded,
					"graph exceeds %d nodes", b.maxNodes).WithPath(child.Path())
			}
			index[key] = len(graph.Nodes)
			graph.Edges[cursor] = append(graph.Edges[cursor], len(graph.Nodes))
			graph.Nodes = append(graph.Nodes, child)
			b.logger.Debug("discovered node", "kind", child.Kind(), "path", child.Path(), "parent", cursor)
		}
	}

	b.logger.Debug("built graph", "root", rootNode.Path(), "nodes", graph.Len(), "edges", graph.EdgeCount())
	return graph, nil
}
