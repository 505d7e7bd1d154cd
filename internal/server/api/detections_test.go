package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/renderix/roadwatch/internal/store"
)

func testHandler(t *testing.T) (*DetectionsHandler, *store.Store) {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return NewDetectionsHandler(s), s
}

func seedDetections(t *testing.T, s *store.Store, n int) []string {
	t.Helper()

	base := time.Date(2026, 8, 20, 6, 0, 0, 0, time.UTC)
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		d := &store.Detection{
			DetectedAt: base.Add(time.Duration(i) * time.Minute),
			Area:       5000 + i,
			X:          10, Y: 20, Width: 100, Height: 80,
		}
		if err := s.Detections().Create(d); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		ids[i] = d.ID
	}
	return ids
}

func TestDetectionsHandler_List(t *testing.T) {
	h, s := testHandler(t)
	seedDetections(t, s, 3)

	req := httptest.NewRequest(http.MethodGet, "/api/detections", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp listDetectionsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Detections) != 3 {
		t.Fatalf("listed %d detections, want 3", len(resp.Detections))
	}

	// Newest first.
	if resp.Detections[0].Area != 5002 {
		t.Errorf("first detection area = %d, want 5002", resp.Detections[0].Area)
	}
}

func TestDetectionsHandler_ListLimit(t *testing.T) {
	h, s := testHandler(t)
	seedDetections(t, s, 5)

	req := httptest.NewRequest(http.MethodGet, "/api/detections?limit=2", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp listDetectionsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Detections) != 2 {
		t.Errorf("listed %d detections, want 2", len(resp.Detections))
	}
}

func TestDetectionsHandler_ListBadLimit(t *testing.T) {
	h, _ := testHandler(t)

	for _, limit := range []string{"zero", "-1", "0"} {
		req := httptest.NewRequest(http.MethodGet, "/api/detections?limit="+limit, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%s status = %d, want %d", limit, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestDetectionsHandler_Get(t *testing.T) {
	h, s := testHandler(t)
	ids := seedDetections(t, s, 1)

	req := httptest.NewRequest(http.MethodGet, "/api/detections/"+ids[0], nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp detectionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != ids[0] {
		t.Errorf("ID = %q, want %q", resp.ID, ids[0])
	}
	if resp.Width != 100 || resp.Height != 80 {
		t.Errorf("bounds = %dx%d, want 100x80", resp.Width, resp.Height)
	}
}

func TestDetectionsHandler_GetMissing(t *testing.T) {
	h, _ := testHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/detections/nope", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestDetectionsHandler_Delete(t *testing.T) {
	h, s := testHandler(t)
	ids := seedDetections(t, s, 1)

	req := httptest.NewRequest(http.MethodDelete, "/api/detections/"+ids[0], nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	if _, err := s.Detections().Get(ids[0]); err != store.ErrNotFound {
		t.Errorf("detection still present after delete: %v", err)
	}
}

func TestDetectionsHandler_MethodNotAllowed(t *testing.T) {
	h, _ := testHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/detections", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
