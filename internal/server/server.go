// Package server exposes graph building and module inspection over HTTP.
//
// Routes:
//
//	GET /healthz                              liveness probe
//	GET /graph?path=<rel>&format=<fmt>        graph of base_dir/<rel>
//	GET /inspect?path=<rel>                   signatures of a module file
//	GET /metrics                              Prometheus metrics
//
// Paths are relative to the configured base directory and may not leave it,
// neither lexically nor through a symbolic link at the requested path.
// Encoded responses are cached by request parameters for the configured TTL.
package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/shinier/pkg/cache"
	"github.com/matzehuels/shinier/pkg/errors"
	"github.com/matzehuels/shinier/pkg/graph"
	"github.com/matzehuels/shinier/pkg/inspect"
)

// Config holds server settings.
type Config struct {
	Addr     string
	BaseDir  string
	CacheTTL time.Duration
	Sorted   bool
	MaxNodes int
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCache sets the response cache. The default stores nothing.
func WithCache(c cache.Cache) Option {
	return func(s *Server) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithGatherer sets the registry served on /metrics. The default is
// prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		if g != nil {
			s.gatherer = g
		}
	}
}

// Server is the HTTP front end.
type Server struct {
	cfg       Config
	baseDir   string
	builder   *graph.Builder
	inspector *inspect.Inspector
	cache     cache.Cache
	gatherer  prometheus.Gatherer
	logger    *log.Logger
	router    chi.Router
}

// New creates a server rooted at cfg.BaseDir, which must be an existing
// directory.
func New(cfg Config, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		cache:    cache.NewNullCache(),
		gatherer: prometheus.DefaultGatherer,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	base, err := canonical(cfg.BaseDir)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(base); err != nil || !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "base directory is not a directory: %s", cfg.BaseDir).WithPath(cfg.BaseDir)
	}
	s.baseDir = base

	s.builder = graph.NewBuilder(
		graph.WithLogger(s.logger),
		graph.WithSortedChildren(cfg.Sorted),
		graph.WithMaxNodes(cfg.MaxNodes),
	)
	s.inspector = inspect.New(s.logger)
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Get("/graph", s.handleGraph)
	r.Get("/inspect", s.handleInspect)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// BaseDir returns the canonical base directory.
func (s *Server) BaseDir() string { return s.baseDir }

// Run listens on cfg.Addr and serves until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "listen on %s", s.cfg.Addr)
	}
	return s.Serve(ctx, ln)
}

// Serve is [Server.Run] on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", ln.Addr().String(), "base_dir", s.baseDir)
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// resolve maps a request path onto the base directory and returns the
// canonical target. Targets outside the base directory are INVALID_PATH.
func (s *Server) resolve(rel string) (string, error) {
	if err := errors.ValidatePath(rel); err != nil {
		return "", err
	}
	target, err := canonical(filepath.Join(s.baseDir, filepath.FromSlash(rel)))
	if err != nil {
		return "", err
	}
	if !within(s.baseDir, target) {
		return "", errors.New(errors.ErrCodeInvalidPath, "path escapes base directory: %s", rel).WithPath(rel)
	}
	return target, nil
}

func canonical(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "absolute path of %s", p).WithPath(p)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNotFound, err, "path does not exist: %s", p).WithPath(p)
	}
	return resolved, nil
}

func within(base, p string) bool {
	if p == base {
		return true
	}
	return strings.HasPrefix(p, base+string(filepath.Separator))
}
