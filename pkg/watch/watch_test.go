package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/shinier/pkg/errors"
	"github.com/matzehuels/shinier/pkg/graph"
)

func next(t *testing.T, results <-chan Result) Result {
	t.Helper()
	select {
	case r := <-results:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for rebuild")
		return Result{}
	}
}

func TestWatcherRebuildsOnChange(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.py"), nil, 0o644))

	results := make(chan Result, 8)
	w, err := New(root, nil, func(r Result) { results <- r }, Options{
		Debounce: 20 * time.Millisecond,
		Ignore:   []string{"*.swp"},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	initial := next(t, results)
	require.NoError(t, initial.Err)
	assert.Empty(t, initial.Changes)
	assert.Equal(t, 2, initial.Graph.Len())

	added := filepath.Join(root, "b.py")
	require.NoError(t, os.WriteFile(added, nil, 0o644))

	r := next(t, results)
	require.NoError(t, r.Err)
	assert.Equal(t, 3, r.Graph.Len())
	require.NotEmpty(t, r.Changes)
	assert.Equal(t, added, r.Changes[0].Path)
}

func TestWatcherWatchesNewDirectories(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	results := make(chan Result, 8)
	w, err := New(root, graph.NewBuilder(), func(r Result) { results <- r }, Options{Debounce: 20 * time.Millisecond})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()
	next(t, results)

	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	next(t, results)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "m.py"), nil, 0o644))
	r := next(t, results)
	require.NoError(t, r.Err)
	assert.Equal(t, 3, r.Graph.Len())
}

func TestNewErrors(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), nil, nil, Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))

	f := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(f, nil, 0o644))
	_, err = New(f, nil, nil, Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidPath))
}

func TestShouldIgnore(t *testing.T) {
	w := &Watcher{ignore: []string{".git", "*.pyc"}}
	assert.True(t, w.shouldIgnore("/src/.git"))
	assert.True(t, w.shouldIgnore("/src/pkg/mod.pyc"))
	assert.False(t, w.shouldIgnore("/src/pkg/mod.py"))
	assert.False(t, w.shouldIgnore("/src/.github"))
}

func TestDedupe(t *testing.T) {
	now := time.Now()
	got := dedupe([]Change{
		{Path: "/b", Op: OpCreate, Time: now},
		{Path: "/a", Op: OpWrite, Time: now},
		{Path: "/b", Op: OpWrite, Time: now.Add(time.Millisecond)},
	})
	require.Len(t, got, 2)
	assert.Equal(t, "/a", got[0].Path)
	assert.Equal(t, "/b", got[1].Path)
	assert.Equal(t, OpWrite, got[1].Op)
}

func TestStopWithoutStart(t *testing.T) {
	w, err := New(t.TempDir(), nil, nil, Options{})
	require.NoError(t, err)
	w.Stop()
	w.Stop()
}

func TestStartFailureReleasesWatcher(t *testing.T) {
	root := filepath.Join(t.TempDir(), "root")
	require.NoError(t, os.Mkdir(root, 0o755))
	w, err := New(root, nil, func(Result) { t.Error("handler must not run") }, Options{})
	require.NoError(t, err)
	require.NoError(t, os.Remove(root))

	ctx := context.Background()
	err = w.Start(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInternal))

	// The failed Start did not mark the watcher as running.
	assert.False(t, w.started)
	assert.Error(t, w.Start(ctx))
	w.Stop()
}
