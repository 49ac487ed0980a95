package inspect

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/matzehuels/shinier/pkg/errors"
	"github.com/matzehuels/shinier/pkg/graph"
)

// Inspector extracts signatures from module nodes.
type Inspector struct {
	logger *log.Logger
	lang   *sitter.Language
}

// New returns an Inspector. A nil logger discards diagnostics.
func New(logger *log.Logger) *Inspector {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Inspector{logger: logger, lang: python.GetLanguage()}
}

// InspectPath derives the module node for path and inspects it.
func (in *Inspector) InspectPath(ctx context.Context, path string) ([]Signature, error) {
	n, err := graph.NodeFromPath(path)
	if err != nil {
		return nil, err
	}
	return in.Inspect(ctx, n)
}

// Inspect returns the signatures defined at the top level of module n and
// inside its top-level classes. Non-module nodes fail with NOT_A_MODULE;
// source with syntax errors fails with PARSE_FAILED.
func (in *Inspector) Inspect(ctx context.Context, n graph.Node) ([]Signature, error) {
	loc, ok := n.Location.(graph.ModuleLocation)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotAModule, "not a module: %s", n.Path()).WithPath(n.Path())
	}

	src, err := os.ReadFile(loc.Path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read %s", loc.Path).WithPath(loc.Path)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(in.lang)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseFailed, err, "parse %s", loc.Path).WithPath(loc.Path)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, errors.New(errors.ErrCodeParseFailed, "syntax error in %s", loc.Path).WithPath(loc.Path)
	}

	x := extractor{src: src, module: loc}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		x.topLevel(root.NamedChild(i))
	}
	in.logger.Debug("inspected module", "path", loc.Path, "signatures", len(x.out))
	return x.out, nil
}
