package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	// Verify the expected structure: $HOME/.cache/shinier
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", "shinier")
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(xdg, "shinier"); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCachePathCommand(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run("cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if want := filepath.Join(env.cacheHome, "shinier"); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestCacheClearCommand(t *testing.T) {
	env := newTestEnv(t)

	_, stderr, err := env.run("cache", "clear")
	if err != nil {
		t.Fatalf("cache clear on empty cache: %v", err)
	}
	if !strings.Contains(stderr, "Cache is empty") {
		t.Errorf("stderr = %q, want empty-cache notice", stderr)
	}

	dir := filepath.Join(env.cacheHome, "shinier", "ab")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	entry := filepath.Join(dir, "entry.json")
	if err := os.WriteFile(entry, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, stderr, err = env.run("cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(stderr, "Cleared cache") {
		t.Errorf("stderr = %q, want success message", stderr)
	}
	if _, err := os.Stat(entry); !os.IsNotExist(err) {
		t.Errorf("entry still present after clear: %v", err)
	}
}
