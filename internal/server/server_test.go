package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/shinier/pkg/buildinfo"
	"github.com/matzehuels/shinier/pkg/cache"
	"github.com/matzehuels/shinier/pkg/errors"
	shinierio "github.com/matzehuels/shinier/pkg/io"
	"github.com/matzehuels/shinier/pkg/observability"
)

// fixture lays out:
//
//	base/
//	  pkg/__init__.py
//	  pkg/api.py        (def hello(name): ...)
//	  notes.txt
//	  escape -> outside/
//	outside/
func fixture(t *testing.T) (base, outside string) {
	t.Helper()
	tmp, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	base = filepath.Join(tmp, "base")
	outside = filepath.Join(tmp, "outside")
	require.NoError(t, os.MkdirAll(filepath.Join(base, "pkg"), 0o755))
	require.NoError(t, os.MkdirAll(outside, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "pkg", "__init__.py"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(base, "pkg", "api.py"), []byte("def hello(name):\n    return name\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(base, "notes.txt"), []byte("hi"), 0o644))
	require.NoError(t, os.Symlink(outside, filepath.Join(base, "escape")))
	return base, outside
}

func newServer(t *testing.T, opts ...Option) (*Server, string) {
	t.Helper()
	base, _ := fixture(t)
	s, err := New(Config{BaseDir: base, Sorted: true, CacheTTL: time.Minute}, opts...)
	require.NoError(t, err)
	return s, base
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newServer(t)
	rec := get(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","version":"`+buildinfo.Version+`"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestGraph(t *testing.T) {
	s, base := newServer(t)

	rec := get(t, s, "/graph?path=pkg")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	g, err := shinierio.ReadJSON(rec.Body)
	require.NoError(t, err)
	require.Equal(t, 2, g.Len())
	assert.Equal(t, filepath.Join(base, "pkg", "__init__.py"), g.Root().Path())
	assert.Equal(t, map[int][]int{0: {1}}, g.Edges)
}

func TestGraphWholeBase(t *testing.T) {
	s, _ := newServer(t)
	rec := get(t, s, "/graph")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	g, err := shinierio.ReadJSON(rec.Body)
	require.NoError(t, err)
	// base, escape target, notes.txt, pkg, api.py
	assert.Equal(t, 5, g.Len())
}

func TestGraphFormats(t *testing.T) {
	s, _ := newServer(t)

	rec := get(t, s, "/graph?path=pkg&format=dot")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/vnd.graphviz", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "n0 -> n1;")

	rec = get(t, s, "/graph?path=pkg&format=yaml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "kind: module")
}

func TestGraphErrors(t *testing.T) {
	s, _ := newServer(t)

	tests := []struct {
		name   string
		target string
		status int
		code   errors.Code
	}{
		{"missing", "/graph?path=nope", http.StatusNotFound, errors.ErrCodeNotFound},
		{"dotdot", "/graph?path=../outside", http.StatusBadRequest, errors.ErrCodeInvalidPath},
		{"absolute", "/graph?path=/etc", http.StatusBadRequest, errors.ErrCodeInvalidPath},
		{"symlink escape", "/graph?path=escape", http.StatusBadRequest, errors.ErrCodeInvalidPath},
		{"bad format", "/graph?path=pkg&format=png", http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"tree not served", "/graph?path=pkg&format=tree", http.StatusBadRequest, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, tt.target)
			assert.Equal(t, tt.status, rec.Code)

			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestGraphLimit(t *testing.T) {
	base, _ := fixture(t)
	s, err := New(Config{BaseDir: base, Sorted: true, MaxNodes: 2})
	require.NoError(t, err)

	rec := get(t, s, "/graph")
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestGraphCaching(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	s, base := newServer(t, WithCache(fc))

	first := get(t, s, "/graph?path=pkg")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "miss", first.Header().Get("X-Cache"))

	// The cached response survives a filesystem change until it expires.
	require.NoError(t, os.WriteFile(filepath.Join(base, "pkg", "extra.py"), nil, 0o644))

	second := get(t, s, "/graph?path=pkg")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "hit", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestInspect(t *testing.T) {
	s, base := newServer(t)

	rec := get(t, s, "/inspect?path=pkg/api.py")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Path       string `json:"path"`
		Module     string `json:"module"`
		ImportRoot string `json:"import_root"`
		Signatures []struct {
			Name        string `json:"name"`
			Concurrency string `json:"concurrency"`
			Parameters  []struct {
				Name string `json:"name"`
				Kind string `json:"kind"`
			} `json:"parameters"`
		} `json:"signatures"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "pkg.api", body.Module)
	assert.Equal(t, base, body.ImportRoot)
	require.Len(t, body.Signatures, 1)
	assert.Equal(t, "hello", body.Signatures[0].Name)
	assert.Equal(t, "sync", body.Signatures[0].Concurrency)
	require.Len(t, body.Signatures[0].Parameters, 1)
	assert.Equal(t, "POSITIONAL_OR_KEYWORD", body.Signatures[0].Parameters[0].Kind)
}

func TestInspectNotAModule(t *testing.T) {
	s, _ := newServer(t)
	rec := get(t, s, "/inspect?path=notes.txt")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), string(errors.ErrCodeNotAModule))
}

func TestRequestIDPropagation(t *testing.T) {
	s, _ := newServer(t)
	id := "0b8e9d3c-0f56-4a4e-9d8f-6f1f2a9d4c11"

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(RequestIDHeader))
}

func TestMetrics(t *testing.T) {
	t.Cleanup(observability.Reset)
	reg := prometheus.NewRegistry()
	hooks := observability.NewPrometheusHooks(reg)
	observability.SetBuildHooks(hooks)
	observability.SetHTTPHooks(hooks)

	s, _ := newServer(t, WithGatherer(reg))
	require.Equal(t, http.StatusOK, get(t, s, "/graph?path=pkg").Code)

	rec := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "shinier_builds_total")
	assert.Contains(t, body, `route="/graph"`)
}

func TestNewRejectsBadBaseDir(t *testing.T) {
	_, err := New(Config{BaseDir: filepath.Join(t.TempDir(), "missing")})
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))

	f := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(f, nil, 0o644))
	_, err = New(Config{BaseDir: f})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidPath))
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s, _ := newServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(context.Canceled))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(errors.New(errors.ErrCodeParseFailed, "x")))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New(errors.ErrCodeInternal, "x")))
	assert.Equal(t, http.StatusInternalServerError, statusFor(os.ErrPermission))
	assert.True(t, strings.HasPrefix(http.StatusText(statusFor(errors.New(errors.ErrCodeNotFound, "x"))), "Not Found"))
}
