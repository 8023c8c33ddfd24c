package store

import (
	"database/sql"
	"time"
)

// TrackPoint is one normalized tip position recorded for a session frame.
type TrackPoint struct {
	ID           int64     `json:"id"`
	SessionID    string    `json:"session_id"`
	FrameIndex   int       `json:"frame_index"`
	HandIndex    int       `json:"hand_index"`
	Finger       string    `json:"finger"`
	XNorm        float64   `json:"x_norm"`
	YNorm        float64   `json:"y_norm"`
	DistanceNorm float64   `json:"distance_norm"`
	CreatedAt    time.Time `json:"created_at"`
}

// TrackRepository provides storage for per-frame track points.
type TrackRepository struct {
	db *sql.DB
}

// Tracks returns the track-point repository for this store.
func (s *Store) Tracks() *TrackRepository {
	return &TrackRepository{db: s.db}
}

// Append inserts one frame's points in a single transaction.
func (r *TrackRepository) Append(sessionID string, points []TrackPoint) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO track_points (session_id, frame_index, hand_index, finger, x_norm, y_norm, distance_norm)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.Exec(sessionID, p.FrameIndex, p.HandIndex, p.Finger, p.XNorm, p.YNorm, p.DistanceNorm); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetBySessionID retrieves all points for a session in frame order.
func (r *TrackRepository) GetBySessionID(sessionID string) ([]TrackPoint, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, frame_index, hand_index, finger, x_norm, y_norm, distance_norm, created_at
		 FROM track_points
		 WHERE session_id = ?
		 ORDER BY frame_index, hand_index`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []TrackPoint
	for rows.Next() {
		var p TrackPoint
		if err := rows.Scan(&p.ID, &p.SessionID, &p.FrameIndex, &p.HandIndex, &p.Finger,
			&p.XNorm, &p.YNorm, &p.DistanceNorm, &p.CreatedAt); err != nil {
			return nil, err
		}
		points = append(points, p)
	}

	return points, rows.Err()
}

// CountBySessionID returns the number of stored points for a session.
func (r *TrackRepository) CountBySessionID(sessionID string) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM track_points WHERE session_id = ?`, sessionID).Scan(&n)
	return n, err
}
