package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/shinier/pkg/buildinfo"
	"github.com/matzehuels/shinier/pkg/errors"
)

// testEnv isolates config and cache lookups in temporary directories.
type testEnv struct {
	t         *testing.T
	cacheHome string
	cfgHome   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{t: t, cacheHome: t.TempDir(), cfgHome: t.TempDir()}
	t.Setenv("XDG_CACHE_HOME", env.cacheHome)
	t.Setenv("XDG_CONFIG_HOME", env.cfgHome)
	return env
}

// writeConfig writes the default config file.
func (e *testEnv) writeConfig(body string) {
	e.t.Helper()
	dir := filepath.Join(e.cfgHome, "shinier")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		e.t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(body), 0o644); err != nil {
		e.t.Fatal(err)
	}
}

// run executes the CLI with args and returns command output and status
// output separately.
func (e *testEnv) run(args ...string) (stdout, stderr string, err error) {
	e.t.Helper()
	var out, errOut bytes.Buffer
	c := New(&errOut, LogInfo)
	c.SetOutput(&out)
	root := c.rootWithGlobals()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestVersionFlag(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run("--version")
	if err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !strings.Contains(out, buildinfo.Version) {
		t.Errorf("--version output = %q, want version %q", out, buildinfo.Version)
	}
}

func TestConfigFlagMissingFile(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run("--config", filepath.Join(t.TempDir(), "nope.toml"), "cache", "path")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing --config file: got %v, want NOT_FOUND", err)
	}
}

func TestConfigFileInvalid(t *testing.T) {
	env := newTestEnv(t)
	env.writeConfig("[output]\nformat = \"png\"\n")

	_, _, err := env.run("cache", "path")
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("invalid config: got %v, want INVALID_CONFIG", err)
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()

	for _, name := range []string{"build", "inspect", "browse", "watch", "serve", "cache", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	newTestEnv(t)
	if err := Execute(context.Background(), &bytes.Buffer{}, []string{"frobnicate"}); err == nil {
		t.Error("unknown command should fail")
	}
}
