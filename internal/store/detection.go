package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a detection does not exist.
var ErrNotFound = errors.New("detection not found")

// Detection is a persisted alert episode: the moment a vehicle-sized blob
// first triggered the indicator, with the blob's area and bounding box and
// an optional saved snapshot of the triggering frame.
type Detection struct {
	ID           string    `json:"id"`
	DetectedAt   time.Time `json:"detected_at"`
	Area         int       `json:"area"`
	X            int       `json:"x"`
	Y            int       `json:"y"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	SnapshotPath string    `json:"snapshot_path,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// DetectionRepository provides CRUD operations for detections.
type DetectionRepository struct {
	db *sql.DB
}

// Detections returns the detection repository for this store.
func (s *Store) Detections() *DetectionRepository {
	return &DetectionRepository{db: s.db}
}

// Create inserts a detection. An empty ID is replaced with a new UUID.
func (r *DetectionRepository) Create(d *Detection) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}

	_, err := r.db.Exec(
		`INSERT INTO detections (id, detected_at, area, x, y, width, height, snapshot_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.DetectedAt, d.Area, d.X, d.Y, d.Width, d.Height, d.SnapshotPath,
	)
	return err
}

// Get retrieves a detection by ID.
func (r *DetectionRepository) Get(id string) (*Detection, error) {
	row := r.db.QueryRow(
		`SELECT id, detected_at, area, x, y, width, height, snapshot_path, created_at
		 FROM detections WHERE id = ?`,
		id,
	)

	var d Detection
	err := row.Scan(&d.ID, &d.DetectedAt, &d.Area, &d.X, &d.Y, &d.Width, &d.Height,
		&d.SnapshotPath, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListRecent returns up to limit detections, newest first.
func (r *DetectionRepository) ListRecent(limit int) ([]Detection, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, detected_at, area, x, y, width, height, snapshot_path, created_at
		 FROM detections
		 ORDER BY detected_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var detections []Detection
	for rows.Next() {
		var d Detection
		if err := rows.Scan(&d.ID, &d.DetectedAt, &d.Area, &d.X, &d.Y, &d.Width,
			&d.Height, &d.SnapshotPath, &d.CreatedAt); err != nil {
			return nil, err
		}
		detections = append(detections, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return detections, nil
}

// CountSince returns the number of detections at or after t.
func (r *DetectionRepository) CountSince(t time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM detections WHERE detected_at >= ?`, t,
	).Scan(&n)
	return n, err
}

// Delete removes a detection by ID.
func (r *DetectionRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM detections WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// PruneBefore removes detections older than t and returns how many rows
// were deleted.
func (r *DetectionRepository) PruneBefore(t time.Time) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM detections WHERE detected_at < ?`, t)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
