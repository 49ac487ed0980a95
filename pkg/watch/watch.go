// Package watch rebuilds a graph whenever the watched tree changes.
//
// A [Watcher] subscribes to every directory below its root with fsnotify,
// collects events until the tree has been quiet for the debounce window,
// then rebuilds the graph and hands the result to a [Handler]. Handlers run
// one at a time on the watcher's goroutine.
//
//	w, err := watch.New(root, builder, func(r watch.Result) {
//	    if r.Err != nil {
//	        logger.Error("rebuild failed", "err", r.Err)
//	        return
//	    }
//	    logger.Info("rebuilt", "nodes", r.Graph.Len())
//	}, watch.Options{Debounce: 200 * time.Millisecond})
//	if err != nil {
//	    return err
//	}
//	if err := w.Start(ctx); err != nil {
//	    return err
//	}
//	defer w.Stop()
//
// Directories reached through symbolic links are not watched.
package watch

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/shinier/pkg/errors"
	"github.com/matzehuels/shinier/pkg/graph"
)

// Op is the kind of a filesystem change.
type Op int

const (
	OpCreate Op = iota
	OpWrite
	OpRemove
	OpRename
)

func (op Op) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Change is one observed filesystem event.
type Change struct {
	Path string
	Op   Op
	Time time.Time
}

// Result is passed to the handler after every rebuild. Changes is empty for
// the initial build.
type Result struct {
	Graph   *graph.Graph
	Changes []Change
	Err     error
}

// Handler receives rebuild results.
type Handler func(Result)

// Options configures a [Watcher]. Zero values select the defaults.
type Options struct {
	// Debounce is the quiet period before a rebuild. Default 200ms.
	Debounce time.Duration
	// Ignore holds base names or glob patterns of paths to skip.
	Ignore []string
	// BufferSize bounds pending events; extra events are dropped.
	// Default 1000.
	BufferSize int
	// Logger receives watcher diagnostics. Default discards.
	Logger *log.Logger
}

// Watcher rebuilds the graph of a directory tree on change.
type Watcher struct {
	root     string
	builder  *graph.Builder
	handler  Handler
	debounce time.Duration
	ignore   []string
	logger   *log.Logger

	fsw     *fsnotify.Watcher
	changes chan Change
	done    chan struct{}
	wg      sync.WaitGroup

	stopOnce sync.Once
	mu       sync.Mutex
	started  bool
}

// New creates a watcher for the directory root. A nil builder uses
// graph.NewBuilder() defaults.
func New(root string, builder *graph.Builder, handler Handler, opts Options) (*Watcher, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "watch root %s", root).WithPath(root)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "watch root is not a directory: %s", root).WithPath(root)
	}
	if builder == nil {
		builder = graph.NewBuilder()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 200 * time.Millisecond
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1000
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create fsnotify watcher")
	}

	return &Watcher{
		root:     root,
		builder:  builder,
		handler:  handler,
		debounce: opts.Debounce,
		ignore:   opts.Ignore,
		logger:   opts.Logger,
		fsw:      fsw,
		changes:  make(chan Change, opts.BufferSize),
		done:     make(chan struct{}),
	}, nil
}

// Start subscribes to the tree, runs the initial build, and begins
// processing events. It returns once the subscriptions are in place.
// Calling Start again after a successful Start is a no-op. A failed Start
// releases the watcher; create a new one to retry.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return nil
	}

	if err := w.addRecursive(w.root); err != nil {
		_ = w.fsw.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "watch %s", w.root).WithPath(w.root)
	}
	w.started = true

	w.wg.Add(2)
	go w.processEvents(ctx)
	go w.debounceLoop(ctx)
	return nil
}

// Stop ends event processing and waits for a running handler to return.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsw.Close()
		w.wg.Wait()
	})
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.shouldIgnore(path) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *Watcher) shouldIgnore(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range w.ignore {
		if base == pattern {
			return true
		}
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.shouldIgnore(event.Name) {
				continue
			}

			change := Change{Path: event.Name, Op: convertOp(event.Op), Time: time.Now()}
			select {
			case w.changes <- change:
			default:
				w.logger.Warn("dropping filesystem event, buffer full", "path", event.Name)
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Lstat(event.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(event.Name); err != nil {
						w.logger.Warn("cannot watch new directory", "path", event.Name, "err", err)
					}
				}
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

func convertOp(op fsnotify.Op) Op {
	switch {
	case op.Has(fsnotify.Create):
		return OpCreate
	case op.Has(fsnotify.Write):
		return OpWrite
	case op.Has(fsnotify.Remove):
		return OpRemove
	case op.Has(fsnotify.Rename):
		return OpRename
	default:
		return OpWrite
	}
}

func (w *Watcher) debounceLoop(ctx context.Context) {
	defer w.wg.Done()

	w.rebuild(ctx, nil)

	var batch []Change
	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case change := <-w.changes:
			batch = append(batch, change)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-timerC:
			timer, timerC = nil, nil
			changes := dedupe(batch)
			batch = batch[:0]
			w.rebuild(ctx, changes)
		}
	}
}

func (w *Watcher) rebuild(ctx context.Context, changes []Change) {
	g, err := w.builder.Build(ctx, w.root)
	if err != nil {
		w.logger.Debug("rebuild failed", "root", w.root, "err", err)
	} else {
		w.logger.Debug("rebuilt graph", "root", w.root, "nodes", g.Len(), "changes", len(changes))
	}
	if w.handler != nil {
		w.handler(Result{Graph: g, Changes: changes, Err: err})
	}
}

// dedupe keeps the last change per path, ordered by path.
func dedupe(batch []Change) []Change {
	last := make(map[string]Change, len(batch))
	for _, c := range batch {
		last[c.Path] = c
	}
	out := make([]Change, 0, len(last))
	for _, c := range last {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b Change) int { return strings.Compare(a.Path, b.Path) })
	return out
}
