package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/shinier/pkg/graph"
)

// WriteJSON encodes a graph as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(g *graph.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toDocument(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a graph to a JSON file at path.
func ExportJSON(g *graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}

// WriteYAML encodes a graph as YAML and writes it to w. The document has
// the same fields as the JSON format.
func WriteYAML(g *graph.Graph, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toDocument(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}
