package store

import (
	"database/sql"
	"encoding/json"
	"time"
)

// FrameRecord is one evaluated frame recorded during a session.
type FrameRecord struct {
	ID         int64           `json:"id"`
	SessionID  string          `json:"session_id"`
	Seq        uint64          `json:"seq"`
	Count      int             `json:"count"`
	Reason     string          `json:"reason,omitempty"`
	Vertices   json.RawMessage `json:"vertices"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// FrameRepository stores per-frame results.
type FrameRepository struct {
	db *sql.DB
}

// Frames returns the frame result repository for this store.
func (s *Store) Frames() *FrameRepository {
	return &FrameRepository{db: s.db}
}

// Record inserts rec and bumps the session's frame count in one transaction.
func (r *FrameRepository) Record(rec *FrameRecord) error {
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now()
	}
	vertices := rec.Vertices
	if vertices == nil {
		vertices = json.RawMessage("[]")
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO frame_results (session_id, seq, finger_count, reason, vertices, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.Seq, rec.Count, rec.Reason, string(vertices), rec.RecordedAt,
	)
	if err != nil {
		return err
	}

	result, err := tx.Exec(`UPDATE sessions SET frames = frames + 1 WHERE id = ?`, rec.SessionID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	rec.ID, _ = res.LastInsertId()
	return nil
}

// ListBySession returns the most recent frames of a session in capture order.
// A limit of 0 or less returns every frame.
func (r *FrameRepository) ListBySession(sessionID string, limit int) ([]FrameRecord, error) {
	query := `SELECT id, session_id, seq, finger_count, reason, vertices, recorded_at
		 FROM (SELECT * FROM frame_results WHERE session_id = ? ORDER BY seq DESC LIMIT ?)
		 ORDER BY seq`
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(query, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []FrameRecord
	for rows.Next() {
		var rec FrameRecord
		var vertices string
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Seq, &rec.Count, &rec.Reason, &vertices, &rec.RecordedAt); err != nil {
			return nil, err
		}
		rec.Vertices = json.RawMessage(vertices)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Histogram returns how many frames of a session saw each finger count.
func (r *FrameRepository) Histogram(sessionID string) (map[int]int, error) {
	rows, err := r.db.Query(
		`SELECT finger_count, COUNT(*) FROM frame_results
		 WHERE session_id = ? GROUP BY finger_count`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hist := make(map[int]int)
	for rows.Next() {
		var count, frames int
		if err := rows.Scan(&count, &frames); err != nil {
			return nil, err
		}
		hist[count] = frames
	}

	return hist, rows.Err()
}
