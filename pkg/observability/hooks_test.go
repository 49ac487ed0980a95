package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	b := NoopBuildHooks{}
	b.OnBuildStart(ctx, "/src")
	b.OnSymlinkResolved(ctx, "/src/link", "/src/pkg")
	b.OnBuildComplete(ctx, "/src", 3, 2, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "graph")
	c.OnCacheMiss(ctx, "graph")
	c.OnCacheSet(ctx, "graph", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/graph", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Build().(NoopBuildHooks); !ok {
		t.Error("Build() should return NoopBuildHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customBuild := &testBuildHooks{}
	SetBuildHooks(customBuild)
	if Build() != customBuild {
		t.Error("SetBuildHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Build().(NoopBuildHooks); !ok {
		t.Error("Reset() should restore NoopBuildHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testBuildHooks{}
	SetBuildHooks(custom)
	SetBuildHooks(nil)

	if Build() != custom {
		t.Error("SetBuildHooks(nil) should be ignored")
	}

	Reset()
}

func TestPrometheusHooks(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	h := NewPrometheusHooks(reg)

	h.OnSymlinkResolved(ctx, "a", "b")
	h.OnBuildComplete(ctx, "/src", 5, 4, time.Millisecond, nil)
	h.OnBuildComplete(ctx, "/src", 0, 0, time.Millisecond, errors.New("boom"))
	h.OnCacheHit(ctx, "graph")
	h.OnCacheMiss(ctx, "graph")
	h.OnCacheSet(ctx, "graph", 10)
	h.OnRequest(ctx, "GET", "/graph", 200, time.Millisecond)

	if got := testutil.ToFloat64(h.symlinks); got != 1 {
		t.Errorf("symlinks = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.builds.WithLabelValues("ok")); got != 1 {
		t.Errorf("builds{ok} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.builds.WithLabelValues("error")); got != 1 {
		t.Errorf("builds{error} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.cacheEvents.WithLabelValues("hit", "graph")); got != 1 {
		t.Errorf("cache hit = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.cacheBytes); got != 10 {
		t.Errorf("cache bytes = %v, want 10", got)
	}
	if got := testutil.ToFloat64(h.requests.WithLabelValues("GET", "/graph", "200")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
}

// Test implementations
type testBuildHooks struct{ NoopBuildHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
