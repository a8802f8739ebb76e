// Package http exposes a document manager as a JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/deepset"
	"github.com/aretw0/deepset/internal/logging"
	"github.com/aretw0/deepset/pkg/domain"
	"github.com/aretw0/deepset/pkg/path"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Documents is the subset of document.Manager served over HTTP.
type Documents interface {
	Set(ctx context.Context, id string, p, value any) (any, error)
	Trace(ctx context.Context, id string, p, value any) ([]domain.Step, error)
	Get(ctx context.Context, id string, p any) (any, bool, error)
	Load(ctx context.Context, id string) (any, error)
	Save(ctx context.Context, id string, doc any) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
}

// Server holds the handlers of the API.
type Server struct {
	Documents Documents
	Streams   *StreamManager

	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics serves the gatherer on /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates a new HTTP handler for the documents.
func NewHandler(docs Documents, opts ...Option) http.Handler {
	server := &Server{
		Documents: docs,
		Streams:   NewStreamManager(),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}
	server.Streams.logger = server.logger

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	if server.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(server.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/documents", func(r chi.Router) {
		r.Get("/", server.ListDocuments)
		r.Get("/{id}", server.GetDocument)
		r.Put("/{id}", server.PutDocument)
		r.Delete("/{id}", server.DeleteDocument)
		r.Post("/{id}/trace", server.TraceDocument)
		r.Get("/{id}/events", server.SubscribeEvents)
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "deepset-http",
		"version": strings.TrimSpace(deepset.Version),
	})
}

// ListDocuments handles the GET /documents request.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Documents.List(r.Context())
	if err != nil {
		s.fail(w, "List", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"documents": ids})
}

// GetDocument handles GET /documents/{id}. With a path query only the value
// at that path is returned.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := path.Sanitize(r.URL.Query().Get("path"))
	if err != nil {
		s.fail(w, "Get", err)
		return
	}

	if p == "" {
		doc, err := s.Documents.Load(r.Context(), id)
		if err != nil {
			s.fail(w, "Load", err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{"id": id, "document": doc})
		return
	}

	v, ok, err := s.Documents.Get(r.Context(), id, p)
	if err != nil {
		s.fail(w, "Get", err)
		return
	}
	if !ok {
		http.Error(w, fmt.Sprintf("no value at %q", p), http.StatusNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"id": id, "path": p, "value": v})
}

// PutDocument handles PUT /documents/{id}. The body is the JSON value to write
// at the path query, or the whole document when no path is given.
func (s *Server) PutDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := path.Sanitize(r.URL.Query().Get("path"))
	if err != nil {
		s.fail(w, "Put", err)
		return
	}

	var value any
	if err := json.NewDecoder(r.Body).Decode(&value); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("PutDocument: Invalid request body", "error", err)
		return
	}

	var doc any
	if p == "" {
		if value == nil {
			s.fail(w, "Save", domain.ErrBadArguments)
			return
		}
		doc, err = value, s.Documents.Save(r.Context(), id, value)
	} else {
		doc, err = s.Documents.Set(r.Context(), id, p, value)
	}
	if err != nil {
		s.fail(w, "Put", err)
		return
	}

	s.broadcast(id, p, value)
	s.writeJSON(w, http.StatusOK, map[string]any{"id": id, "document": doc})
}

// DeleteDocument handles DELETE /documents/{id}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.Documents.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, "Delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TraceRequest is the body of POST /documents/{id}/trace.
type TraceRequest struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// StepView is the wire form of a walk step.
type StepView struct {
	Kind  domain.StepKind `json:"kind"`
	Depth int             `json:"depth"`
	Key   any             `json:"key"`
	OK    bool            `json:"ok,omitempty"`
	Error string          `json:"error,omitempty"`
}

// NewStepView converts a step, dropping its target.
func NewStepView(step domain.Step) StepView {
	v := StepView{Kind: step.Kind, Depth: step.Depth, Key: step.Key, OK: step.OK}
	if step.Err != nil {
		v.Error = step.Err.Error()
	}
	return v
}

// TraceDocument handles POST /documents/{id}/trace. The steps are returned
// even when the walk fails; the status code then reflects the failure.
func (s *Server) TraceDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body TraceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("TraceDocument: Invalid request body", "error", err)
		return
	}

	clean, err := path.Sanitize(body.Path)
	if err != nil {
		s.fail(w, "Trace", err)
		return
	}
	body.Path = clean

	var p any
	if body.Path != "" {
		p = body.Path
	}
	steps, err := s.Documents.Trace(r.Context(), id, p, body.Value)

	views := make([]StepView, len(steps))
	for i, step := range steps {
		views[i] = NewStepView(step)
	}
	resp := map[string]any{"id": id, "steps": views}

	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
		resp["error"] = err.Error()
		s.logger.Warn("Trace failed", "document_id", id, "error", err)
	} else {
		s.broadcast(id, body.Path, body.Value)
	}
	s.writeJSON(w, status, resp)
}

// Event is broadcast to subscribers after every successful write.
type Event struct {
	ID    string `json:"id"`
	Path  string `json:"path,omitempty"`
	Value any    `json:"value"`
}

func (s *Server) broadcast(id, p string, value any) {
	b, err := json.Marshal(Event{ID: id, Path: p, Value: value})
	if err != nil {
		s.logger.Warn("Failed to encode event", "document_id", id, "error", err)
		return
	}
	s.Streams.Broadcast(id, string(b))
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var construction *domain.ConstructionError
	switch {
	case errors.Is(err, domain.ErrBadArguments), errors.Is(err, domain.ErrBadPath):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound
	case errors.As(err, &construction),
		errors.Is(err, domain.ErrUnsettable),
		errors.Is(err, domain.ErrNotAddressable),
		errors.Is(err, domain.ErrInvalidKey),
		errors.Is(err, domain.ErrOutOfBounds),
		errors.Is(err, domain.ErrUnenumerable),
		errors.Is(err, domain.ErrInvalidPosition):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "error", err)
	} else {
		s.logger.Debug(op+" rejected", "error", err, "status", status)
	}
	http.Error(w, fmt.Sprintf("%s error: %v", op, err), status)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}
