package inspect

import (
	"strings"

	"github.com/matzehuels/shinier/pkg/graph"
)

// Concurrency tells plain functions from coroutines.
type Concurrency int

const (
	Sync Concurrency = iota
	Async
)

func (c Concurrency) String() string {
	if c == Async {
		return "async"
	}
	return "sync"
}

// ParameterKind classifies how an argument binds to a parameter.
type ParameterKind int

const (
	PositionalOnly ParameterKind = iota
	PositionalOrKeyword
	VarPositional
	KeywordOnly
	VarKeyword
)

var parameterKindNames = [...]string{
	PositionalOnly:      "POSITIONAL_ONLY",
	PositionalOrKeyword: "POSITIONAL_OR_KEYWORD",
	VarPositional:       "VAR_POSITIONAL",
	KeywordOnly:         "KEYWORD_ONLY",
	VarKeyword:          "VAR_KEYWORD",
}

func (k ParameterKind) String() string {
	if int(k) < len(parameterKindNames) {
		return parameterKindNames[k]
	}
	return "UNKNOWN"
}

// MarshalText encodes the kind by name.
func (k ParameterKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// MarshalText encodes the concurrency by name.
func (c Concurrency) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Parameter is one formal parameter of a callable.
type Parameter struct {
	Name       string        `json:"name"`
	Kind       ParameterKind `json:"kind"`
	Default    string        `json:"default,omitempty"`
	Annotation string        `json:"annotation,omitempty"`
}

// Signature describes one callable found in a module.
type Signature struct {
	// Object locates the callable. Its location is a [graph.ObjectLocation].
	Object      graph.Node  `json:"-"`
	Name        string      `json:"name"`
	RefPath     string      `json:"ref_path"`
	Line        int         `json:"line"`
	Concurrency Concurrency `json:"concurrency"`
	Parameters  []Parameter `json:"parameters"`
	// Return is the return annotation as written, empty if absent.
	Return string `json:"return,omitempty"`
}

// String renders the parameter as it would appear in a def.
func (p Parameter) String() string {
	name := p.Name
	switch p.Kind {
	case VarPositional:
		name = "*" + name
	case VarKeyword:
		name = "**" + name
	}
	switch {
	case p.Annotation != "" && p.Default != "":
		return name + ": " + p.Annotation + " = " + p.Default
	case p.Annotation != "":
		return name + ": " + p.Annotation
	case p.Default != "":
		return name + "=" + p.Default
	}
	return name
}

// String renders the signature in Python syntax, restoring the bare "/" and
// "*" markers, e.g. "async fetch(url: str, *, timeout=3.0)".
func (s Signature) String() string {
	var b strings.Builder
	if s.Concurrency == Async {
		b.WriteString("async ")
	}
	b.WriteString(s.Name)
	b.WriteByte('(')

	parts := make([]string, 0, len(s.Parameters)+2)
	starred := false
	for i, p := range s.Parameters {
		if p.Kind == VarPositional {
			starred = true
		}
		if p.Kind == KeywordOnly && !starred {
			parts = append(parts, "*")
			starred = true
		}
		parts = append(parts, p.String())
		last := i == len(s.Parameters)-1
		if p.Kind == PositionalOnly && (last || s.Parameters[i+1].Kind != PositionalOnly) {
			parts = append(parts, "/")
		}
	}
	b.WriteString(strings.Join(parts, ", "))
	b.WriteByte(')')

	if s.Return != "" {
		b.WriteString(" -> ")
		b.WriteString(s.Return)
	}
	return b.String()
}
