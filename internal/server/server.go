// Package server provides the HTTP server for the finger counter.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/fingercount/internal/app"
	"github.com/ayusman/fingercount/internal/server/api"
	"github.com/ayusman/fingercount/internal/store"
)

// ResultSource exposes the latest evaluated frame.
type ResultSource interface {
	Latest() app.Snapshot
}

// FrameSource exposes the latest annotated frame as JPEG with its sequence number.
type FrameSource interface {
	Annotated() ([]byte, uint64)
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Counter   api.CounterSettings
	Results   ResultSource
	Frames    FrameSource
	Hub       *Hub
}

// Server represents the HTTP server for the finger counter.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Counter != nil {
		s.mux.Handle("/api/settings", api.NewSettingsHandler(s.config.Counter))
	}

	if s.config.Results != nil {
		s.mux.HandleFunc("/api/result", s.handleResult)
	}

	// Register session API handler if Store is configured
	if s.config.Store != nil {
		sessions := api.NewSessionHandler(s.config.Store)
		s.mux.Handle("/api/sessions", sessions)
		s.mux.Handle("/api/sessions/", sessions)
	}

	if s.config.Frames != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Frames))
	}

	if s.config.Hub != nil {
		s.mux.Handle("/api/ws", s.config.Hub)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	writeJSON(w, response)
}

// handleResult handles GET requests to /api/result.
func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, s.config.Results.Latest())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
