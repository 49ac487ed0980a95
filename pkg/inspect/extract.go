package inspect

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/matzehuels/shinier/pkg/graph"
)

type extractor struct {
	src    []byte
	module graph.ModuleLocation
	out    []Signature
}

func (x *extractor) text(n *sitter.Node) string {
	return n.Content(x.src)
}

// unwrap returns the definition behind a decorator list.
func unwrap(n *sitter.Node) *sitter.Node {
	if n.Type() == "decorated_definition" {
		if def := n.ChildByFieldName("definition"); def != nil {
			return def
		}
	}
	return n
}

func (x *extractor) topLevel(n *sitter.Node) {
	n = unwrap(n)
	switch n.Type() {
	case "function_definition":
		x.function(n, nil)
	case "class_definition":
		nameNode := n.ChildByFieldName("name")
		body := n.ChildByFieldName("body")
		if nameNode == nil || body == nil {
			return
		}
		class := x.text(nameNode)
		for i := 0; i < int(body.NamedChildCount()); i++ {
			if m := unwrap(body.NamedChild(i)); m.Type() == "function_definition" {
				x.function(m, []string{class})
			}
		}
	}
}

func (x *extractor) function(n *sitter.Node, scope []string) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := x.text(nameNode)
	ref := append(append(graph.DotPath{}, scope...), name)

	sig := Signature{
		Name:        name,
		RefPath:     ref.String(),
		Line:        int(n.StartPoint().Row) + 1,
		Concurrency: Sync,
		Parameters:  []Parameter{},
		Object: graph.Node{
			Location: graph.ObjectLocation{
				Path:       x.module.Path,
				ImportRoot: x.module.ImportRoot,
				ImportPath: x.module.ImportPath,
				RefPath:    ref,
			},
			Name: graph.Name{ShortName: name, LongName: ref.String(), Aliases: []string{}},
		},
	}
	if n.ChildCount() > 0 && n.Child(0).Type() == "async" {
		sig.Concurrency = Async
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		sig.Parameters = x.parameters(params)
	}
	if ret := n.ChildByFieldName("return_type"); ret != nil {
		sig.Return = x.text(ret)
	}
	x.out = append(x.out, sig)
}

// parameters walks a parameter list left to right. A `/` marker turns every
// parameter before it positional-only; a bare `*` or `*args` turns every
// later named parameter keyword-only.
func (x *extractor) parameters(n *sitter.Node) []Parameter {
	params := []Parameter{}
	named := PositionalOrKeyword

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "positional_separator", "/":
			for j := range params {
				if params[j].Kind == PositionalOrKeyword {
					params[j].Kind = PositionalOnly
				}
			}
		case "keyword_separator", "*":
			named = KeywordOnly
		case "identifier":
			params = append(params, Parameter{Name: x.text(child), Kind: named})
		case "default_parameter", "typed_default_parameter":
			p := Parameter{Kind: named}
			if v := child.ChildByFieldName("name"); v != nil {
				p.Name = x.text(v)
			}
			if v := child.ChildByFieldName("type"); v != nil {
				p.Annotation = x.text(v)
			}
			if v := child.ChildByFieldName("value"); v != nil {
				p.Default = x.text(v)
			}
			params = append(params, p)
		case "typed_parameter":
			p := x.splat(child.NamedChild(0), named)
			if v := child.ChildByFieldName("type"); v != nil {
				p.Annotation = x.text(v)
			}
			if p.Kind == VarPositional {
				named = KeywordOnly
			}
			params = append(params, p)
		case "list_splat_pattern", "dictionary_splat_pattern":
			p := x.splat(child, named)
			if p.Kind == VarPositional {
				named = KeywordOnly
			}
			params = append(params, p)
		}
	}
	return params
}

// splat classifies the name part of a parameter, which is a plain
// identifier or a `*`/`**` pattern wrapping one.
func (x *extractor) splat(n *sitter.Node, named ParameterKind) Parameter {
	if n == nil {
		return Parameter{Kind: named}
	}
	switch n.Type() {
	case "list_splat_pattern":
		return Parameter{Name: x.firstIdentifier(n), Kind: VarPositional}
	case "dictionary_splat_pattern":
		return Parameter{Name: x.firstIdentifier(n), Kind: VarKeyword}
	default:
		return Parameter{Name: x.text(n), Kind: named}
	}
}

func (x *extractor) firstIdentifier(n *sitter.Node) string {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == "identifier" {
			return x.text(c)
		}
	}
	return ""
}
