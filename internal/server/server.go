// Package server exposes market snapshots over HTTP.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"log"
	"net/http"
	"strconv"
	"time"

	"MarketPulse/internal/metrics"
	"MarketPulse/internal/model"
	"MarketPulse/internal/recorder"
)

//go:embed static
var staticFiles embed.FS

const (
	defaultBuildsLimit = 20
	maxBuildsLimit     = 200
)

// SnapshotSource returns the snapshot for the current minute.
type SnapshotSource interface {
	GetOrBuild(ctx context.Context) *model.MarketSnapshot
}

// Server holds the handler dependencies.
type Server struct {
	Source   SnapshotSource
	Recorder recorder.Recorder
	Metrics  *metrics.Metrics
}

func New(src SnapshotSource, rec recorder.Recorder, m *metrics.Metrics) *Server {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Server{Source: src, Recorder: rec, Metrics: m}
}

// SetCORS sets permissive CORS headers.
func SetCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/market", s.handleMarket)
	mux.HandleFunc("GET /api/watchlist", s.handleWatchlist)
	mux.HandleFunc("GET /api/indices", s.handleIndices)
	mux.HandleFunc("GET /api/builds", s.handleBuilds)
	if s.Metrics != nil {
		mux.Handle("GET /metrics", s.Metrics.Handler())
	}

	static, _ := fs.Sub(staticFiles, "static")
	mux.Handle("GET /{$}", http.FileServerFS(static))

	return withCORS(mux)
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetCORS(w)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Source.GetOrBuild(r.Context()))
}

type watchlistResponse struct {
	Watchlist map[string]model.SymbolQuote `json:"watchlist"`
	Movers    []model.Mover                `json:"movers"`
	Timestamp time.Time                    `json:"timestamp"`
}

func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	snap := s.Source.GetOrBuild(r.Context())
	writeJSON(w, watchlistResponse{
		Watchlist: snap.Watchlist,
		Movers:    snap.Movers,
		Timestamp: snap.Timestamp,
	})
}

type indicesResponse struct {
	Indices   map[string]model.SymbolQuote `json:"indices"`
	Timestamp time.Time                    `json:"timestamp"`
}

func (s *Server) handleIndices(w http.ResponseWriter, r *http.Request) {
	snap := s.Source.GetOrBuild(r.Context())
	writeJSON(w, indicesResponse{Indices: snap.Indices, Timestamp: snap.Timestamp})
}

func (s *Server) handleBuilds(w http.ResponseWriter, r *http.Request) {
	limit := defaultBuildsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(n, maxBuildsLimit)
	}
	builds, err := s.Recorder.RecentBuilds(limit)
	if err != nil {
		log.Printf("[ERROR] list builds: %v", err)
		builds = []recorder.BuildRecord{}
	}
	writeJSON(w, builds)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[WARN] encode response: %v", err)
	}
}
