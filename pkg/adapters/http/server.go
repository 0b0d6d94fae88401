package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/canvas"
	"github.com/aretw0/canvas/internal/logging"
	"github.com/aretw0/canvas/internal/presentation/graph"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Diagrams is the read side of the session manager.
type Diagrams interface {
	Load(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context) ([]string, error)
}

// RequestObserver receives one call per served request.
type RequestObserver interface {
	ObserveHTTP(method, route string, status int)
}

// Server exposes diagrams read-only over HTTP.
type Server struct {
	Diagrams Diagrams
	observer RequestObserver
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithObserver counts requests by route pattern and status.
func WithObserver(o RequestObserver) Option {
	return func(s *Server) {
		s.observer = o
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the HTTP handler for the inspection API.
func NewHandler(diagrams Diagrams, opts ...Option) http.Handler {
	s := &Server{
		Diagrams: diagrams,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	if s.observer != nil {
		r.Use(s.observe)
	}
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Route("/diagrams", func(r chi.Router) {
		r.Get("/", s.ListDiagrams)
		r.Route("/{diagramID}", func(r chi.Router) {
			r.Get("/", s.GetDiagram)
			r.Get("/elements", s.ListElements)
			r.Get("/elements/{elementID}", s.GetElement)
			r.Get("/containers/{elementID}", s.GetContainer)
			r.Get("/relationships/{elementID}", s.GetRelationship)
			r.Get("/selection", s.GetSelection)
			r.Get("/graph", s.GetGraph)
		})
	})
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.observer.ObserveHTTP(r.Method, route, status)
	})
}

// DiagramSummary is the listing entry of a diagram.
type DiagramSummary struct {
	ID        string             `json:"id"`
	Type      domain.DiagramType `json:"type"`
	Elements  int                `json:"elements"`
	Selection []string           `json:"selection"`
	CanUndo   bool               `json:"can_undo"`
	CanRedo   bool               `json:"can_redo"`
}

func summarize(doc *domain.Document) DiagramSummary {
	sel := doc.State.Selection()
	if sel == nil {
		sel = []string{}
	}
	return DiagramSummary{
		ID:        doc.ID,
		Type:      doc.Type,
		Elements:  doc.State.Len(),
		Selection: sel,
		CanUndo:   len(doc.Past) > 0,
		CanRedo:   len(doc.Future) > 0,
	}
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"app":     "canvas-http",
		"version": strings.TrimSpace(canvas.Version),
	})
}

// ListDiagrams handles the GET /diagrams request.
func (s *Server) ListDiagrams(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Diagrams.List(r.Context())
	if err != nil {
		s.fail(w, "List", err)
		return
	}
	out := make([]DiagramSummary, 0, len(ids))
	for _, id := range ids {
		doc, err := s.Diagrams.Load(r.Context(), id)
		if errors.Is(err, domain.ErrDiagramNotFound) {
			continue // deleted between List and Load
		}
		if err != nil {
			s.fail(w, "List", err)
			return
		}
		out = append(out, summarize(doc))
	}
	s.writeJSON(w, out)
}

// GetDiagram handles the GET /diagrams/{diagramID} request.
func (s *Server) GetDiagram(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.load(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, summarize(doc))
}

// ListElements handles the GET /diagrams/{diagramID}/elements request.
// The optional owner query parameter restricts the listing to one container's children.
func (s *Server) ListElements(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.load(w, r)
	if !ok {
		return
	}

	elements := doc.State.Elements()
	if owner := r.URL.Query().Get("owner"); owner != "" {
		if _, err := doc.State.Container(owner); err != nil {
			s.fail(w, "ListElements", err)
			return
		}
		elements = elements[:0:0]
		for _, id := range doc.State.Children(owner) {
			if el, err := doc.State.Lookup(id); err == nil {
				elements = append(elements, el)
			}
		}
	}
	s.writeJSON(w, elements)
}

// ElementView is an element together with its resolved diagram position.
type ElementView struct {
	*domain.Element
	Absolute domain.Point `json:"absolute"`
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request, op string, find func(*domain.State, string) (*domain.Element, error)) {
	doc, ok := s.load(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "elementID")
	el, err := find(doc.State, id)
	if err != nil {
		s.fail(w, op, err)
		return
	}
	abs, err := doc.State.AbsolutePosition(id)
	if err != nil {
		s.fail(w, op, err)
		return
	}
	s.writeJSON(w, ElementView{Element: el, Absolute: abs})
}

// GetElement handles the GET /diagrams/{diagramID}/elements/{elementID} request.
func (s *Server) GetElement(w http.ResponseWriter, r *http.Request) {
	s.lookup(w, r, "GetElement", (*domain.State).Lookup)
}

// GetContainer handles the GET /diagrams/{diagramID}/containers/{elementID} request.
func (s *Server) GetContainer(w http.ResponseWriter, r *http.Request) {
	s.lookup(w, r, "GetContainer", (*domain.State).Container)
}

// GetRelationship handles the GET /diagrams/{diagramID}/relationships/{elementID} request.
func (s *Server) GetRelationship(w http.ResponseWriter, r *http.Request) {
	s.lookup(w, r, "GetRelationship", (*domain.State).Relationship)
}

// GetSelection handles the GET /diagrams/{diagramID}/selection request.
func (s *Server) GetSelection(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.load(w, r)
	if !ok {
		return
	}
	sel := doc.State.Selection()
	if sel == nil {
		sel = []string{}
	}
	s.writeJSON(w, sel)
}

// GetGraph handles the GET /diagrams/{diagramID}/graph request.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.load(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(doc.State))
}

// -- Helpers --

func (s *Server) load(w http.ResponseWriter, r *http.Request) (*domain.Document, bool) {
	doc, err := s.Diagrams.Load(r.Context(), chi.URLParam(r, "diagramID"))
	if err != nil {
		s.fail(w, "Load", err)
		return nil, false
	}
	return doc, true
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", "err", err)
	}
	http.Error(w, fmt.Sprintf("%s error: %v", op, err), status)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrDiagramNotFound), errors.Is(err, domain.ErrElementNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotContainer), errors.Is(err, domain.ErrNotRelationship):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
