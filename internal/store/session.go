package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested session does not exist.
var ErrNotFound = errors.New("session not found")

// Session represents one recording session.
type Session struct {
	ID        string     `json:"id"`
	Backend   string     `json:"backend"`
	Frames    int        `json:"frames"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Start creates a new session for the given backend and returns its ID.
func (r *SessionRepository) Start(backend string) (string, error) {
	id := uuid.NewString()
	_, err := r.db.Exec(
		`INSERT INTO sessions (id, backend, started_at) VALUES (?, ?, ?)`,
		id, backend, time.Now(),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// End marks a session finished and records its final frame count.
func (r *SessionRepository) End(id string, frames int) error {
	res, err := r.db.Exec(
		`UPDATE sessions SET ended_at = ?, frames = ? WHERE id = ?`,
		time.Now(), frames, id,
	)
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

// Get retrieves a session by ID.
func (r *SessionRepository) Get(id string) (*Session, error) {
	row := r.db.QueryRow(
		`SELECT id, backend, frames, started_at, ended_at FROM sessions WHERE id = ?`, id,
	)

	var s Session
	var ended sql.NullTime
	if err := row.Scan(&s.ID, &s.Backend, &s.Frames, &s.StartedAt, &ended); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if ended.Valid {
		s.EndedAt = &ended.Time
	}
	return &s, nil
}

// List returns all sessions, newest first.
func (r *SessionRepository) List() ([]Session, error) {
	rows, err := r.db.Query(
		`SELECT id, backend, frames, started_at, ended_at FROM sessions ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		var ended sql.NullTime
		if err := rows.Scan(&s.ID, &s.Backend, &s.Frames, &s.StartedAt, &ended); err != nil {
			return nil, err
		}
		if ended.Valid {
			s.EndedAt = &ended.Time
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

// Delete removes a session and, via cascade, its track points.
func (r *SessionRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
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
