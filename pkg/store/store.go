// Package store persists job run results ("memories") and per-sender
// session history in a local sqlite database. The template engine consumes
// its output through template.MemoryEntry; nothing else leaks out.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/kadirpekel/vigil/pkg/template"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS job_runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    job_alias TEXT NOT NULL,
    result TEXT NOT NULL,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS sessions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    channel TEXT NOT NULL,
    sender TEXT NOT NULL,
    role TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_job_runs_alias ON job_runs(job_alias);
CREATE INDEX IF NOT EXISTS idx_sessions_channel_sender ON sessions(channel, sender);
`

// Message is one stored session entry for a channel+sender conversation.
type Message struct {
	Role      string
	Content   string
	Timestamp string
}

// Store wraps the sqlite database. Safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens or creates the database at path and runs migrations.
func Open(path string) (*Store, error) {
	return open(path)
}

// OpenMemory opens an in-memory database, for tests.
func OpenMemory() (*Store, error) {
	return open(":memory:")
}

func open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database %s: %w", dsn, err)
	}

	// sqlite handles one writer; a single connection also keeps :memory:
	// databases from vanishing between pool connections.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// StoreRun persists a job run result and returns its run ID.
func (s *Store) StoreRun(jobAlias, result string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runID := uuid.NewString()
	_, err := s.db.Exec(
		"INSERT INTO job_runs (run_id, job_alias, result) VALUES (?, ?, ?)",
		runID, jobAlias, result,
	)
	if err != nil {
		return "", fmt.Errorf("failed to store run for %q: %w", jobAlias, err)
	}
	return runID, nil
}

// Memory returns a single memory for a job. Offset 0 is the latest run,
// 1 the second latest, and so on. A nil entry means nothing stored there.
func (s *Store) Memory(jobAlias string, offset int) (*template.MemoryEntry, error) {
	row := s.db.QueryRow(
		`SELECT result, created_at FROM job_runs
		 WHERE job_alias = ? ORDER BY id DESC LIMIT 1 OFFSET ?`,
		jobAlias, offset,
	)

	var result, createdAt string
	if err := row.Scan(&result, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read memory for %q: %w", jobAlias, err)
	}

	entry := newMemoryEntry(result, createdAt)
	return &entry, nil
}

// Memories returns up to limit recent memories for a job, newest first.
func (s *Store) Memories(jobAlias string, limit int) ([]template.MemoryEntry, error) {
	rows, err := s.db.Query(
		`SELECT result, created_at FROM job_runs
		 WHERE job_alias = ? ORDER BY id DESC LIMIT ?`,
		jobAlias, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read memories for %q: %w", jobAlias, err)
	}
	defer rows.Close()

	var entries []template.MemoryEntry
	for rows.Next() {
		var result, createdAt string
		if err := rows.Scan(&result, &createdAt); err != nil {
			return nil, err
		}
		entries = append(entries, newMemoryEntry(result, createdAt))
	}
	return entries, rows.Err()
}

// StoreMessage appends a message to a channel+sender session.
func (s *Store) StoreMessage(channel, sender, role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT INTO sessions (channel, sender, role, content) VALUES (?, ?, ?, ?)",
		channel, sender, role, content,
	)
	if err != nil {
		return fmt.Errorf("failed to store session message: %w", err)
	}
	return nil
}

// Session returns up to limit recent messages for a channel+sender,
// oldest first. The limit keeps the newest messages: the query walks
// newest-first and the result is reversed into chronological order.
func (s *Store) Session(channel, sender string, limit int) ([]Message, error) {
	rows, err := s.db.Query(
		`SELECT role, content, created_at FROM sessions
		 WHERE channel = ? AND sender = ? ORDER BY id DESC LIMIT ?`,
		channel, sender, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.Role, &m.Content, &m.Timestamp); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// newMemoryEntry derives the date field from the sqlite datetime text
// (YYYY-MM-DD HH:MM:SS).
func newMemoryEntry(result, createdAt string) template.MemoryEntry {
	date := createdAt
	if len(createdAt) >= 10 {
		date = createdAt[:10]
	}
	return template.MemoryEntry{Date: date, DateTime: createdAt, Result: result}
}
