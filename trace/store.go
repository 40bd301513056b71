package trace

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store persists simulation sessions and their scan records in SQLite.
type Store struct {
	db *sql.DB
}

// Session is one recorded simulation run.
type Session struct {
	ID        string     `json:"id"`
	Program   string     `json:"program"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Cycles    uint64     `json:"cycles"`
}

// OpenStore opens (or creates) a store at the given path. ":memory:" gives a
// private in-memory database.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		program TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		ended_at DATETIME,
		cycles INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS scans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL REFERENCES sessions(id),
		cycle INTEGER NOT NULL,
		timestamp DATETIME NOT NULL,
		scan_us INTEGER NOT NULL,
		state TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scans_session ON scans(session_id, cycle);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginSession creates a new session for a program and returns its id.
func (s *Store) BeginSession(program string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, program, started_at) VALUES (?, ?, ?)`,
		id, program, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("begin session: %w", err)
	}
	return id, nil
}

// AppendScan stores one scan record under its session.
func (s *Store) AppendScan(r Record) error {
	state, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO scans (session_id, cycle, timestamp, scan_us, state) VALUES (?, ?, ?, ?, ?)`,
		r.Session, r.Cycle, r.Timestamp.UTC(), r.ScanTime.Microseconds(), string(state),
	)
	if err != nil {
		return fmt.Errorf("append scan: %w", err)
	}
	return nil
}

// EndSession marks a session finished with its final cycle count.
func (s *Store) EndSession(id string, cycles uint64) error {
	_, err := s.db.Exec(
		`UPDATE sessions SET ended_at = ?, cycles = ? WHERE id = ?`,
		time.Now().UTC(), cycles, id,
	)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

// Sessions lists all sessions, newest first.
func (s *Store) Sessions() ([]Session, error) {
	rows, err := s.db.Query(
		`SELECT id, program, started_at, ended_at, cycles FROM sessions ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var (
			sess  Session
			ended sql.NullTime
		)
		if err := rows.Scan(&sess.ID, &sess.Program, &sess.StartedAt, &ended, &sess.Cycles); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if ended.Valid {
			t := ended.Time
			sess.EndedAt = &t
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// Scans returns all records of a session in cycle order.
func (s *Store) Scans(sessionID string) ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT state FROM scans WHERE session_id = ? ORDER BY cycle`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query scans: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var state string
		if err := rows.Scan(&state); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		var r Record
		if err := json.Unmarshal([]byte(state), &r); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
