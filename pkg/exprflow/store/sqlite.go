package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/sysmuse/exprflow/pkg/exprflow/value"
)

// SQLiteStore persists result contexts to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore creates a new SQLite context store.
// The path should be a file path (e.g., "./results.db") or ":memory:"
// for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS result_entries (
			run_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			kind TEXT NOT NULL,
			value TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_result_entries_run_id
		ON result_entries(run_id)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save implements ContextStore. The whole context is replaced in one
// transaction so a reload never sees a partial run.
func (s *SQLiteStore) Save(runID string, result *value.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM result_entries WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("replace run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO result_entries (run_id, position, name, kind, value, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	position := 0
	var insertErr error
	result.Range(func(name string, v value.Value) bool {
		_, insertErr = stmt.Exec(runID, position, name, encodeKind(v.Kind()), v.Render(), now)
		position++
		return insertErr == nil
	})
	if insertErr != nil {
		return fmt.Errorf("save entry: %w", insertErr)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Load implements ContextStore.
func (s *SQLiteStore) Load(runID string) (*value.Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT name, kind, value FROM result_entries
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	defer rows.Close()

	ctx := value.NewContext()
	found := false
	for rows.Next() {
		var name, kind, text string
		if err := rows.Scan(&name, &kind, &text); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		v, err := decodeValue(kind, text)
		if err != nil {
			return nil, fmt.Errorf("decode entry %s: %w", name, err)
		}
		ctx.Set(name, v)
		found = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	if !found {
		return nil, ErrNotFound
	}
	return ctx, nil
}

// Runs implements ContextStore.
func (s *SQLiteStore) Runs() ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT run_id, MAX(timestamp), COUNT(*)
		FROM result_entries
		GROUP BY run_id
		ORDER BY MAX(timestamp) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var infos []Info
	for rows.Next() {
		var info Info
		var ts string
		if err := rows.Scan(&info.RunID, &ts, &info.Entries); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			info.Timestamp = parsed
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return infos, nil
}

// Delete implements ContextStore.
func (s *SQLiteStore) Delete(runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.db.Exec(`DELETE FROM result_entries WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return nil
}

// Close implements ContextStore.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
