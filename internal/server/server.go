// Package server provides the operator HTTP surface for the road watcher:
// health, alert status, the stored detection log, a camera preview stream,
// and a live event feed. It observes the pipeline; it never alerts anyone.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/renderix/roadwatch/internal/app"
	"github.com/renderix/roadwatch/internal/server/api"
	"github.com/renderix/roadwatch/internal/store"
)

// Config holds the server configuration.
type Config struct {
	Store *store.Store
	App   *app.App
}

// Server represents the HTTP server for the road watcher.
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

	if s.config.Store != nil {
		detectionsHandler := api.NewDetectionsHandler(s.config.Store)
		s.mux.Handle("/api/detections", detectionsHandler)
		s.mux.Handle("/api/detections/", detectionsHandler)
	}

	if s.config.App != nil {
		s.mux.HandleFunc("/api/status", s.handleStatus)
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.App.Camera()))
		s.mux.Handle("/api/events", NewEventsHandler(s.config.App))
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

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// handleStatus handles GET requests to /api/status with the live alert
// machine state.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(statusSnapshot(s.config.App)); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// statusSnapshot assembles the status document shared by /api/status and
// the event feed.
func statusSnapshot(a *app.App) map[string]interface{} {
	machine := a.Machine()

	snapshot := map[string]interface{}{
		"state":      machine.State().String(),
		"enabled":    a.IsEnabled(),
		"suppressed": machine.Suppressed(),
		"timestamp":  time.Now().UnixMilli(),
	}

	if since, ok := machine.ActiveSince(); ok {
		snapshot["active_since"] = since.Format(time.RFC3339Nano)
	}
	if last, area, ok := a.LastDetection(); ok {
		snapshot["last_detection"] = last.Format(time.RFC3339Nano)
		snapshot["last_area"] = area
	}

	return snapshot
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
