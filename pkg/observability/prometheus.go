package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusHooks implements [BuildHooks], [CacheHooks] and [HTTPHooks]
// with Prometheus collectors registered on a caller-supplied registry.
type PrometheusHooks struct {
	builds        *prometheus.CounterVec
	buildDuration prometheus.Histogram
	buildNodes    prometheus.Histogram
	symlinks      prometheus.Counter
	cacheEvents   *prometheus.CounterVec
	cacheBytes    prometheus.Counter
	requests      *prometheus.CounterVec
	requestTime   *prometheus.HistogramVec
}

// NewPrometheusHooks registers the shinier collectors on reg.
// Registering twice on the same registry panics, as with promauto.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		builds: f.NewCounterVec(prometheus.CounterOpts{
			Name: "shinier_builds_total",
			Help: "Graph builds by outcome.",
		}, []string{"outcome"}),
		buildDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "shinier_build_duration_seconds",
			Help:    "Wall time of graph builds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		buildNodes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "shinier_build_nodes",
			Help:    "Number of nodes in successfully built graphs.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		symlinks: f.NewCounter(prometheus.CounterOpts{
			Name: "shinier_symlinks_resolved_total",
			Help: "Symbolic links canonicalized during builds.",
		}),
		cacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "shinier_cache_events_total",
			Help: "Cache hits, misses and writes by key type.",
		}, []string{"event", "key_type"}),
		cacheBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "shinier_cache_written_bytes_total",
			Help: "Bytes written to the cache.",
		}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "shinier_http_requests_total",
			Help: "Served HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		requestTime: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shinier_http_request_duration_seconds",
			Help:    "Latency of served HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

func (h *PrometheusHooks) OnBuildStart(context.Context, string) {}

func (h *PrometheusHooks) OnSymlinkResolved(context.Context, string, string) {
	h.symlinks.Inc()
}

func (h *PrometheusHooks) OnBuildComplete(_ context.Context, _ string, nodes, _ int, d time.Duration, err error) {
	h.buildDuration.Observe(d.Seconds())
	if err != nil {
		h.builds.WithLabelValues("error").Inc()
		return
	}
	h.builds.WithLabelValues("ok").Inc()
	h.buildNodes.Observe(float64(nodes))
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues("hit", keyType).Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues("miss", keyType).Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheEvents.WithLabelValues("set", keyType).Inc()
	h.cacheBytes.Add(float64(size))
}

func (h *PrometheusHooks) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	h.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.requestTime.WithLabelValues(route).Observe(d.Seconds())
}

var (
	_ BuildHooks = (*PrometheusHooks)(nil)
	_ CacheHooks = (*PrometheusHooks)(nil)
	_ HTTPHooks  = (*PrometheusHooks)(nil)
)
