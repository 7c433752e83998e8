package namecache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one cached mapping from a raw "title - author" key to the folder
// name chosen for it.
type Entry struct {
	Key        string
	FolderName string
	Source     string
	CreatedAt  time.Time
}

// Suggestion sources recorded alongside each entry.
const (
	SourceLLM  = "llm"
	SourceSlug = "slug"
)

// Store persists folder name decisions in SQLite so repeat runs reuse
// earlier suggestions instead of re-querying the LLM.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS folder_names (
    key         TEXT PRIMARY KEY,
    folder_name TEXT NOT NULL,
    source      TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL
);
`

// Open initializes or connects to the cache database at path, creating the
// parent directory and schema as needed.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("cache path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the filesystem location of the database.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the cached folder name for key, if present. Keys are matched
// exactly, without normalization.
func (s *Store) Get(ctx context.Context, key string) (Entry, bool, error) {
	if key == "" {
		return Entry{}, false, nil
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT key, folder_name, source, created_at FROM folder_names WHERE key = ?`, key)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("lookup %q: %w", key, err)
	}
	return entry, true, nil
}

// Put stores or replaces the folder name for key. The key is stored as
// given; callers own any normalization.
func (s *Store) Put(ctx context.Context, key, folderName, source string) error {
	folderName = strings.TrimSpace(folderName)
	if key == "" {
		return errors.New("cache key cannot be empty")
	}
	if folderName == "" {
		return errors.New("folder name cannot be empty")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO folder_names (key, folder_name, source, created_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(key) DO UPDATE SET
             folder_name = excluded.folder_name,
             source = excluded.source,
             created_at = excluded.created_at`,
		key, folderName, source, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("store %q: %w", key, err)
	}
	return nil
}

// Delete removes the entry for key. Removing an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.New("cache key cannot be empty")
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM folder_names WHERE key = ?`, key)
	if err != nil {
		return false, fmt.Errorf("delete %q: %w", key, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete %q: rows affected: %w", key, err)
	}
	return affected > 0, nil
}

// Clear removes every entry and returns the number removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM folder_names`)
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear cache: rows affected: %w", err)
	}
	return affected, nil
}

// Count returns the number of cached entries.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM folder_names`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count cache entries: %w", err)
	}
	return count, nil
}

// Entries returns all cached entries ordered by key.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, folder_name, source, created_at FROM folder_names ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list cache entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("list cache entries: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cache entries: %w", err)
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var entry Entry
	var createdAt string
	if err := row.Scan(&entry.Key, &entry.FolderName, &entry.Source, &createdAt); err != nil {
		return Entry{}, err
	}
	if parsed, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		entry.CreatedAt = parsed
	}
	return entry, nil
}
