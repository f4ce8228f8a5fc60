package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"learning_diagram_generator/generator"
)

// Server exposes the explanation pipeline over a small JSON API.
type Server struct {
	pipeline *generator.Pipeline
	store    *runStore
	log      zerolog.Logger
}

// runStore keeps completed bundles in memory, keyed by run id. Runs live
// only for the lifetime of the process.
type runStore struct {
	mu   sync.Mutex
	runs map[string]generator.Bundle
}

func newStore() *runStore {
	return &runStore{runs: make(map[string]generator.Bundle)}
}

func (s *runStore) set(id string, b generator.Bundle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[id] = b
}

func (s *runStore) get(id string) (generator.Bundle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.runs[id]
	return b, ok
}

func New(pipeline *generator.Pipeline, log zerolog.Logger) (*Server, error) {
	if pipeline == nil {
		return nil, errors.New("pipeline required")
	}
	return &Server{
		pipeline: pipeline,
		store:    newStore(),
		log:      log,
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/runs", s.handleRunCreate)
	mux.HandleFunc("/api/runs/", s.handleRunByID)
	return s.logMiddleware(mux)
}

// --- Handlers ---

type runCreateReq struct {
	Topic string `json:"topic"`
}

type runResp struct {
	RunID  string           `json:"run_id"`
	Bundle generator.Bundle `json:"bundle"`
}

func (s *Server) handleRunCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req runCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		http.Error(w, "topic is required", http.StatusBadRequest)
		return
	}

	// Covers up to 12 sequential gateway calls per run.
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	bundle, err := s.pipeline.Explain(ctx, req.Topic)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	id := uuid.NewString()
	s.store.set(id, bundle)
	writeJSON(w, runResp{RunID: id, Bundle: bundle})
}

func (s *Server) handleRunByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/runs/")
	if id == "" {
		http.NotFound(w, r)
		return
	}

	id, wantHTML := strings.CutSuffix(id, "/html")
	bundle, ok := s.store.get(id)
	if !ok {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}

	if wantHTML {
		page, err := renderBundleHTML(bundle)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
		return
	}
	writeJSON(w, runResp{RunID: id, Bundle: bundle})
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
