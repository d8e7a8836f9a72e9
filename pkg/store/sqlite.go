package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps saves in a single SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path. The special
// path ":memory:" gives a private in-memory database.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite store: empty path")
	}
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// Every connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		level_number INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		size INTEGER NOT NULL,
		data BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_saves_created ON saves(created_at);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *SQLiteStore) Put(ctx context.Context, e Entry, data []byte) (Entry, error) {
	e, err := prepare(e, data)
	if err != nil {
		return Entry{}, err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO saves (id, name, level_number, created_at, size, data)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			level_number = excluded.level_number,
			created_at = excluded.created_at,
			size = excluded.size,
			data = excluded.data
	`, e.ID, e.Name, e.LevelNumber, e.CreatedAt.UnixNano(), e.Size, data)
	if err != nil {
		return Entry{}, fmt.Errorf("insert save: %w", err)
	}
	return e, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) ([]byte, Entry, error) {
	var (
		e       Entry
		created int64
		data    []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, level_number, created_at, size, data
		FROM saves WHERE id = ?
	`, id).Scan(&e.ID, &e.Name, &e.LevelNumber, &created, &e.Size, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, Entry{}, notFound(id)
	}
	if err != nil {
		return nil, Entry{}, fmt.Errorf("query save: %w", err)
	}
	e.CreatedAt = time.Unix(0, created).UTC()
	return data, e, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, level_number, created_at, size
		FROM saves ORDER BY created_at DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query saves: %w", err)
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var (
			e       Entry
			created int64
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.LevelNumber, &created, &e.Size); err != nil {
			return nil, fmt.Errorf("scan save: %w", err)
		}
		e.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete save: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete save: %w", err)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
