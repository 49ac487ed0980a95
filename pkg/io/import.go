package io

import (
	"encoding/json"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/shinier/pkg/errors"
	"github.com/matzehuels/shinier/pkg/graph"
)

// ReadJSON decodes a JSON graph from r.
//
// ReadJSON returns an INVALID_FORMAT error if:
//   - The JSON is malformed
//   - A node has an unknown kind or no path
//   - Two nodes are equal, or an edge references a missing index
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*graph.Graph, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
	}
	return fromDocument(doc)
}

// ImportJSON reads a JSON file at path and returns the decoded graph.
func ImportJSON(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path).WithPath(path)
	}
	defer f.Close()
	return ReadJSON(f)
}

// ReadYAML decodes a YAML graph from r with the same validation as
// [ReadJSON].
func ReadYAML(r io.Reader) (*graph.Graph, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
	}
	return fromDocument(doc)
}
