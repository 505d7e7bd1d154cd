package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Detections table - one row per alert episode
		`CREATE TABLE IF NOT EXISTS detections (
			id TEXT PRIMARY KEY,
			detected_at DATETIME NOT NULL,
			area INTEGER NOT NULL,
			x INTEGER NOT NULL DEFAULT 0,
			y INTEGER NOT NULL DEFAULT 0,
			width INTEGER NOT NULL DEFAULT 0,
			height INTEGER NOT NULL DEFAULT 0,
			snapshot_path TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Index for recency queries and pruning
		`CREATE INDEX IF NOT EXISTS idx_detections_detected_at ON detections(detected_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
