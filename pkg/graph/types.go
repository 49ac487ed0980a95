package graph

import (
	"slices"
	"strings"
)

// DotPath is a dotted import address, outermost segment first.
type DotPath []string

// String joins the segments with dots, e.g. "pkg.sub.mod".
func (p DotPath) String() string { return strings.Join(p, ".") }

// Kind tags the variant of a [Location] and of the [Node] holding it.
type Kind int

const (
	// KindFilesystem is a plain file or directory.
	KindFilesystem Kind = iota
	// KindModule is an importable module or package.
	KindModule
	// KindObject is an object inside a module.
	KindObject
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindFilesystem:
		return "filesystem"
	case KindModule:
		return "module"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of [Kind.String].
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "filesystem":
		return KindFilesystem, true
	case "module":
		return KindModule, true
	case "object":
		return KindObject, true
	}
	return 0, false
}

// Location says where a node lives. The implementations are exactly
// [FilesystemLocation], [ModuleLocation] and [ObjectLocation].
type Location interface {
	// Kind reports the variant.
	Kind() Kind
	// FilePath is the filesystem path backing the location.
	FilePath() string

	location()
}

// FilesystemLocation is a file or directory on disk.
type FilesystemLocation struct {
	Path string
}

// ModuleLocation is an importable module file. Packages are represented by
// their init file.
type ModuleLocation struct {
	Path       string  // module source file
	ImportRoot string  // first ancestor directory that is not a package
	ImportPath DotPath // dotted path relative to ImportRoot
}

// ObjectLocation is an object defined inside a module.
type ObjectLocation struct {
	Path       string
	ImportRoot string
	ImportPath DotPath
	RefPath    DotPath // path of the object inside the module, e.g. Class.method
}

func (FilesystemLocation) Kind() Kind { return KindFilesystem }
func (ModuleLocation) Kind() Kind     { return KindModule }
func (ObjectLocation) Kind() Kind     { return KindObject }

func (l FilesystemLocation) FilePath() string { return l.Path }
func (l ModuleLocation) FilePath() string     { return l.Path }
func (l ObjectLocation) FilePath() string     { return l.Path }

func (FilesystemLocation) location() {}
func (ModuleLocation) location()     {}
func (ObjectLocation) location()     {}

// Name holds the display names of a node.
type Name struct {
	ShortName string
	LongName  string
	Aliases   []string
}

func (n Name) equal(o Name) bool {
	return n.ShortName == o.ShortName &&
		n.LongName == o.LongName &&
		slices.Equal(n.Aliases, o.Aliases)
}

// Node is one vertex of a [Graph]. Nodes are values: two nodes are the same
// node iff every field compares equal.
type Node struct {
	Location Location
	Name     Name
}

// Kind reports the variant of the node's location.
func (n Node) Kind() Kind {
	if n.Location == nil {
		return KindFilesystem
	}
	return n.Location.Kind()
}

// Path is the filesystem path backing the node.
func (n Node) Path() string {
	if n.Location == nil {
		return ""
	}
	return n.Location.FilePath()
}

// ImportPath returns the dotted path of module and object nodes, nil otherwise.
func (n Node) ImportPath() DotPath {
	switch l := n.Location.(type) {
	case ModuleLocation:
		return l.ImportPath
	case ObjectLocation:
		return l.ImportPath
	default:
		return nil
	}
}

// Equal reports whether n and o are value-equal.
func (n Node) Equal(o Node) bool {
	if !n.Name.equal(o.Name) {
		return false
	}
	switch a := n.Location.(type) {
	case FilesystemLocation:
		b, ok := o.Location.(FilesystemLocation)
		return ok && a == b
	case ModuleLocation:
		b, ok := o.Location.(ModuleLocation)
		return ok && a.Path == b.Path && a.ImportRoot == b.ImportRoot &&
			slices.Equal(a.ImportPath, b.ImportPath)
	case ObjectLocation:
		b, ok := o.Location.(ObjectLocation)
		return ok && a.Path == b.Path && a.ImportRoot == b.ImportRoot &&
			slices.Equal(a.ImportPath, b.ImportPath) && slices.Equal(a.RefPath, b.RefPath)
	default:
		return o.Location == nil
	}
}

// Key returns a fingerprint that is equal for two nodes iff [Node.Equal]
// holds. It is used to index nodes during a build.
func (n Node) Key() string {
	var b strings.Builder
	field := func(s string) {
		b.WriteString(s)
		b.WriteByte(0)
	}
	list := func(xs []string) {
		for _, x := range xs {
			b.WriteString(x)
			b.WriteByte(1)
		}
		b.WriteByte(0)
	}

	field(n.Kind().String())
	switch l := n.Location.(type) {
	case FilesystemLocation:
		field(l.Path)
	case ModuleLocation:
		field(l.Path)
		field(l.ImportRoot)
		list(l.ImportPath)
	case ObjectLocation:
		field(l.Path)
		field(l.ImportRoot)
		list(l.ImportPath)
		list(l.RefPath)
	}
	field(n.Name.ShortName)
	field(n.Name.LongName)
	list(n.Name.Aliases)
	return b.String()
}
