// Package api provides HTTP API handlers for the road watcher.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/renderix/roadwatch/internal/store"
)

// DetectionsHandler handles HTTP requests for the stored detection log.
type DetectionsHandler struct {
	store *store.Store
}

// NewDetectionsHandler creates a new DetectionsHandler with the given store.
func NewDetectionsHandler(s *store.Store) *DetectionsHandler {
	return &DetectionsHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests.
func (h *DetectionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/detections or /api/detections/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/detections")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type detectionResponse struct {
	ID           string `json:"id"`
	DetectedAt   string `json:"detected_at"`
	Area         int    `json:"area"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	SnapshotPath string `json:"snapshot_path,omitempty"`
}

type listDetectionsResponse struct {
	Detections []detectionResponse `json:"detections"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Detection to a detectionResponse.
func toResponse(d *store.Detection) detectionResponse {
	return detectionResponse{
		ID:           d.ID,
		DetectedAt:   d.DetectedAt.Format(time.RFC3339),
		Area:         d.Area,
		X:            d.X,
		Y:            d.Y,
		Width:        d.Width,
		Height:       d.Height,
		SnapshotPath: d.SnapshotPath,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/detections, newest first. The optional "limit"
// query parameter caps the result count (default 50).
func (h *DetectionsHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	detections, err := h.store.Detections().ListRecent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list detections")
		return
	}

	resp := listDetectionsResponse{Detections: make([]detectionResponse, 0, len(detections))}
	for i := range detections {
		resp.Detections = append(resp.Detections, toResponse(&detections[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// get handles GET /api/detections/{id}.
func (h *DetectionsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	d, err := h.store.Detections().Get(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Detection not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load detection")
		return
	}
	writeJSON(w, http.StatusOK, toResponse(d))
}

// delete handles DELETE /api/detections/{id}.
func (h *DetectionsHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Detections().Delete(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Detection not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete detection")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
