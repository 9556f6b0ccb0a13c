package state

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS portal_state (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	doc        BLOB NOT NULL,
	updated_at TEXT NOT NULL
);`

// SQLiteStateStore persists the PortalState as a single JSON document
// in a SQLite database. SQLite's journal gives the same torn-write
// safety the file store gets from write-tmp-then-rename.
type SQLiteStateStore struct {
	db     *sql.DB
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

// NewSQLiteStateStore opens (and if needed initializes) the database at
// the given path.
func NewSQLiteStateStore(path string, logger *slog.Logger) (*SQLiteStateStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize state schema: %w", err)
	}
	return &SQLiteStateStore{db: db, path: path, logger: logger}, nil
}

// Load reads the persisted state, or DefaultState() when the database
// holds none.
func (s *SQLiteStateStore) Load() (*PortalState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc []byte
	err := s.db.QueryRow(`SELECT doc FROM portal_state WHERE id = 1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Info("no persisted state, starting anonymous", "path", s.path)
		return DefaultState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state row: %w", err)
	}

	var st PortalState
	if err := json.Unmarshal(doc, &st); err != nil {
		return nil, fmt.Errorf("parse state document: %w", err)
	}
	if st.Stores == nil {
		st.Stores = map[string]Snapshot{}
	}
	return &st, nil
}

// Save upserts the state document.
func (s *SQLiteStateStore) Save(st *PortalState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st.UpdatedAt = time.Now().UTC()
	doc, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO portal_state (id, doc, updated_at) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		doc, st.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("write state row: %w", err)
	}

	s.logger.Debug("state saved", "path", s.path, "backend", "sqlite")
	return nil
}

// Reset deletes the persisted state document.
func (s *SQLiteStateStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM portal_state WHERE id = 1`); err != nil {
		return fmt.Errorf("delete state row: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (s *SQLiteStateStore) Path() string {
	return s.path
}

// Close closes the underlying database.
func (s *SQLiteStateStore) Close() error {
	return s.db.Close()
}
