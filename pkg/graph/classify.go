package graph

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shinier/pkg/errors"
)

const (
	// ModuleSuffix marks a file as a Python module source.
	ModuleSuffix = ".py"
	// InitFile is the file that turns a directory into a package.
	InitFile = "__init__" + ModuleSuffix
)

// IsModuleFile reports whether path names a module source file.
func IsModuleFile(path string) bool {
	return filepath.Ext(path) == ModuleSuffix
}

// IsInitFile reports whether path names a package init file.
func IsInitFile(path string) bool {
	return filepath.Base(path) == InitFile
}

// IsPackageDir reports whether dir is a directory containing an init file.
func IsPackageDir(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	_, err = os.Stat(filepath.Join(dir, InitFile))
	return err == nil
}

// stem returns the file name without its final extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Classification is the verdict of a [Classifier] on one canonical path.
// [NewNode] turns it into a [Node].
type Classification struct {
	// Kind is KindFilesystem or KindModule.
	Kind Kind
	// Path is the canonical path. For packages it is the init file.
	Path string
	// Dir is set for filesystem directories.
	Dir bool
	// Module is set when Kind is KindModule.
	Module *ModuleInfo
}

// ModuleInfo holds the derived metadata of a module path.
type ModuleInfo struct {
	Location  ModuleLocation
	ShortName string
	LongName  string
}

// Classifier inspects single paths. The zero value is not usable; use
// [NewClassifier].
type Classifier struct {
	logger    *log.Logger
	onResolve func(from, to string)
}

// NewClassifier returns a classifier that reports symlink resolution to
// logger at debug level. A nil logger discards the messages.
func NewClassifier(logger *log.Logger) *Classifier {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Classifier{logger: logger}
}

var defaultClassifier = NewClassifier(nil)

// Classify inspects path with a classifier that does not log.
func Classify(path string) (Classification, error) {
	return defaultClassifier.Classify(path)
}

// NodeFromPath classifies path and wraps the result in a [Node].
func NodeFromPath(path string) (Node, error) {
	return defaultClassifier.NodeFromPath(path)
}

// ModuleFromPath derives the module node for a module file.
func ModuleFromPath(path string) (Node, error) {
	return defaultClassifier.ModuleFromPath(path)
}

// NodeFromPath classifies path and wraps the result in a [Node].
func (c *Classifier) NodeFromPath(path string) (Node, error) {
	cl, err := c.Classify(path)
	if err != nil {
		return Node{}, err
	}
	return NewNode(cl), nil
}

// ModuleFromPath derives the module node for a module file. It fails with
// NOT_A_MODULE when path does not carry the module suffix.
func (c *Classifier) ModuleFromPath(path string) (Node, error) {
	cl, err := c.classifyModule(path)
	if err != nil {
		return Node{}, err
	}
	return NewNode(cl), nil
}

// Classify determines the kind of path.
//
// The path must exist (NOT_FOUND otherwise). Symbolic links are resolved to
// their real target first; a broken link is NOT_FOUND. A target that is
// neither a regular file nor a directory is UNSUPPORTED_PATH. Directories
// holding an init file classify as modules rooted at that file; files with
// the module suffix classify as modules; everything else is a plain
// filesystem entry.
func (c *Classifier) Classify(path string) (Classification, error) {
	path, err := c.canonical(path)
	if err != nil {
		return Classification{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return Classification{}, notFound(path, err)
	}

	switch {
	case info.IsDir():
		if IsPackageDir(path) {
			return c.classifyModule(filepath.Join(path, InitFile))
		}
		return Classification{Kind: KindFilesystem, Path: path, Dir: true}, nil
	case info.Mode().IsRegular():
		if IsModuleFile(path) {
			return c.classifyModule(path)
		}
		return Classification{Kind: KindFilesystem, Path: path}, nil
	default:
		return Classification{}, errors.New(errors.ErrCodeUnsupportedPath,
			"path is not a file or directory: %s", path).WithPath(path)
	}
}

// canonical makes path absolute and resolves every symlink along it,
// including links in parent directories.
func (c *Classifier) canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "absolute path of %s", path).WithPath(path)
	}

	if _, err := os.Stat(abs); err != nil {
		return "", notFound(abs, err)
	}

	target, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", notFound(abs, err)
	}
	if target != abs {
		c.logger.Debug("resolved symlink", "from", abs, "to", target)
		if c.onResolve != nil {
			c.onResolve(abs, target)
		}
	}
	return target, nil
}

// classifyModule derives import root, dotted path and names for a module
// file by climbing parent directories while they are packages.
func (c *Classifier) classifyModule(path string) (Classification, error) {
	if !IsModuleFile(path) {
		return Classification{}, errors.New(errors.ErrCodeNotAModule, "path is not a python module: %s", path).WithPath(path)
	}

	importRoot := filepath.Dir(path)
	var parts []string
	var short, long string
	if IsInitFile(path) {
		parts = []string{}
		short = filepath.Base(importRoot)
		long = short
	} else {
		parts = []string{stem(path)}
		short = stem(path)
		long = filepath.Base(path)
	}

	for IsPackageDir(importRoot) {
		parent := filepath.Dir(importRoot)
		if parent == importRoot {
			break
		}
		parts = append([]string{filepath.Base(importRoot)}, parts...)
		importRoot = parent
	}

	return Classification{
		Kind: KindModule,
		Path: path,
		Module: &ModuleInfo{
			Location: ModuleLocation{
				Path:       path,
				ImportRoot: importRoot,
				ImportPath: parts,
			},
			ShortName: short,
			LongName:  long,
		},
	}, nil
}

func notFound(path string, err error) error {
	return errors.Wrap(errors.ErrCodeNotFound, err, "path does not exist: %s", path).WithPath(path)
}
