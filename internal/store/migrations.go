package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Settings table - counter tunables as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Sessions table - one row per capture run
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			camera_id INTEGER NOT NULL DEFAULT 0,
			cluster_radius REAL NOT NULL,
			angle_threshold REAL NOT NULL,
			frames INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME NOT NULL,
			ended_at DATETIME
		)`,

		// Frame results table - per-frame finger counts recorded during a session
		`CREATE TABLE IF NOT EXISTS frame_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			finger_count INTEGER NOT NULL CHECK(finger_count >= 0),
			reason TEXT NOT NULL DEFAULT '',
			vertices TEXT NOT NULL DEFAULT '[]',
			recorded_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_frame_results_session_id ON frame_results(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
