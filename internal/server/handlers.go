package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/shinier/pkg/buildinfo"
	"github.com/matzehuels/shinier/pkg/cache"
	"github.com/matzehuels/shinier/pkg/errors"
	"github.com/matzehuels/shinier/pkg/graph"
	"github.com/matzehuels/shinier/pkg/inspect"
	"github.com/matzehuels/shinier/pkg/observability"
	"github.com/matzehuels/shinier/pkg/render"
)

// graphFormats are the formats served on /graph.
var graphFormats = []string{render.FormatJSON, render.FormatYAML, render.FormatDOT, render.FormatSVG}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = render.FormatJSON
	}
	if err := errors.ValidateFormat(format, graphFormats...); err != nil {
		s.writeError(w, r, err)
		return
	}
	target, err := s.resolve(q.Get("path"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	key := cache.GraphKey(target, cache.GraphKeyOpts{Sorted: s.cfg.Sorted, MaxNodes: s.cfg.MaxNodes, Format: format})
	s.serveCached(w, r, "graph", key, render.ContentType(format), func(ctx context.Context) ([]byte, error) {
		g, err := s.builder.Build(ctx, target)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := render.Write(ctx, &buf, g, format); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
}

type inspectResponse struct {
	Path       string              `json:"path"`
	Module     string              `json:"module"`
	ImportRoot string              `json:"import_root"`
	Signatures []inspect.Signature `json:"signatures"`
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	target, err := s.resolve(r.URL.Query().Get("path"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.serveCached(w, r, "inspect", cache.InspectKey(target), "application/json", func(ctx context.Context) ([]byte, error) {
		n, err := graph.NodeFromPath(target)
		if err != nil {
			return nil, err
		}
		sigs, err := s.inspector.Inspect(ctx, n)
		if err != nil {
			return nil, err
		}
		loc := n.Location.(graph.ModuleLocation)
		if sigs == nil {
			sigs = []inspect.Signature{}
		}
		return json.Marshal(inspectResponse{
			Path:       loc.Path,
			Module:     loc.ImportPath.String(),
			ImportRoot: loc.ImportRoot,
			Signatures: sigs,
		})
	})
}

// serveCached answers from the cache when possible and stores fresh
// responses for the configured TTL. Cache failures are logged and bypassed.
func (s *Server) serveCached(w http.ResponseWriter, r *http.Request, keyType, key, contentType string, compute func(context.Context) ([]byte, error)) {
	ctx := r.Context()
	logger := s.loggerFrom(ctx)

	data, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "key_type", keyType, "err", err)
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType)
		w.Header().Set("X-Cache", "hit")
		writeBody(w, contentType, data)
		return
	}
	observability.Cache().OnCacheMiss(ctx, keyType)

	data, err = compute(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cfg.CacheTTL); err != nil {
		logger.Warn("cache write failed", "key_type", keyType, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, keyType, len(data))
	}
	w.Header().Set("X-Cache", "miss")
	writeBody(w, contentType, data)
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	logger := s.loggerFrom(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		logger.Debug("request rejected", "path", r.URL.Path, "code", code, "err", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

// statusFor maps error codes onto HTTP status codes.
func statusFor(err error) int {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupportedPath, errors.ErrCodeNotAModule,
		errors.ErrCodeInvalidInput, errors.ErrCodeInvalidPath,
		errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeParseFailed:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeLimitExceeded:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBody(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
