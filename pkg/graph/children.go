package graph

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/matzehuels/shinier/pkg/errors"
)

// Children lists the nodes n expands to under one traversal step, with
// directory entries in lexical order.
//
//   - filesystem directory: one node per entry
//   - filesystem file: none
//   - package init module: one node per sibling entry except the init file
//   - any other module: none
//   - object: none
func Children(n Node) ([]Node, error) {
	return defaultClassifier.children(n, true)
}

func (c *Classifier) children(n Node, sorted bool) ([]Node, error) {
	var dir, skip string
	switch l := n.Location.(type) {
	case FilesystemLocation:
		info, err := os.Stat(l.Path)
		if err != nil {
			return nil, notFound(l.Path, err)
		}
		if !info.IsDir() {
			return nil, nil
		}
		dir = l.Path
	case ModuleLocation:
		if !IsInitFile(l.Path) {
			return nil, nil
		}
		dir, skip = filepath.Dir(l.Path), l.Path
	case ObjectLocation:
		return nil, nil
	default:
		return nil, errors.New(errors.ErrCodeInternal, "node has no location")
	}

	names, err := listDir(dir, sorted)
	if err != nil {
		return nil, err
	}

	var out []Node
	for _, name := range names {
		p := filepath.Join(dir, name)
		if p == skip {
			continue
		}
		child, err := c.NodeFromPath(p)
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}

// listDir returns the entry names of dir. Unsorted listing keeps the order
// the operating system reports.
func listDir(dir string, sorted bool) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, notFound(dir, err)
	}
	defer f.Close()

	names, err := f.Readdirnames(-1)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read directory %s", dir).WithPath(dir)
	}
	if sorted {
		slices.Sort(names)
	}
	return names, nil
}
