package graph

import "path/filepath"

// NewNode wraps a classification in a [Node]. Directories are named after
// themselves, files get their stem as short name and full name as long name,
// and modules carry the names derived during classification. Aliases start
// empty.
func NewNode(c Classification) Node {
	switch c.Kind {
	case KindModule:
		return Node{
			Location: c.Module.Location,
			Name:     Name{ShortName: c.Module.ShortName, LongName: c.Module.LongName, Aliases: []string{}},
		}
	default:
		name := filepath.Base(c.Path)
		short := name
		if !c.Dir {
			short = stem(c.Path)
		}
		return Node{
			Location: FilesystemLocation{Path: c.Path},
			Name:     Name{ShortName: short, LongName: name, Aliases: []string{}},
		}
	}
}
