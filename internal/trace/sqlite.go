package trace

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Sink is an optional SQLite-backed trace store, letting a user query
// simulation history with SQL after a run alongside the streamed Paje text
// output. No CLI flag opens one.
type Sink struct {
	db *sql.DB
}

// OpenSink opens (creating if absent) a sqlite database at path and
// ensures its schema exists.
func OpenSink(path string) (*Sink, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("trace: open sqlite sink: %w", err)
	}
	const schema = `CREATE TABLE IF NOT EXISTS events (
		pid INTEGER NOT NULL,
		kind TEXT NOT NULL,
		now REAL NOT NULL,
		detail TEXT
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("trace: create schema: %w", err)
	}
	return &Sink{db: db}, nil
}

// Record inserts one event row.
func (s *Sink) Record(ev Event) error {
	_, err := s.db.Exec(`INSERT INTO events (pid, kind, now, detail) VALUES (?, ?, ?, ?)`,
		ev.PID, ev.Kind, ev.Now, ev.Detail)
	return err
}

// Count returns the number of rows recorded so far, mostly useful in tests.
func (s *Sink) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&n)
	return n, err
}

// Close releases the underlying database handle.
func (s *Sink) Close() error { return s.db.Close() }
