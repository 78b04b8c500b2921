package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteCache stores entries in a single SQLite database file. It suits
// machines where many small files in the cache directory are a nuisance.
type SQLiteCache struct {
	db   *sql.DB
	path string
}

// NewSQLiteCache opens (or creates) the database at path. Use ":memory:"
// for a throwaway cache.
func NewSQLiteCache(ctx context.Context, path string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache: %w", err)
	}
	// An in-memory database lives only as long as its connection.
	db.SetMaxOpenConns(1)

	c := &SQLiteCache{db: db, path: path}
	if err := c.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite cache: %w", err)
	}
	return c, nil
}

func (c *SQLiteCache) migrate(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS entries (
		key        TEXT PRIMARY KEY,
		data       BLOB NOT NULL,
		expires_at INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_entries_expires ON entries(expires_at);
	`)
	return err
}

// Get retrieves a value. Expired rows are deleted on the way.
func (c *SQLiteCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		data      []byte
		expiresAt int64
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT data, expires_at FROM entries WHERE key = ?`, key).Scan(&data, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query entry: %w", err)
	}
	if expiresAt > 0 && time.Now().UnixNano() > expiresAt {
		_ = c.Delete(ctx, key)
		return nil, false, nil
	}
	return data, true, nil
}

// Set stores a value, replacing any previous one.
func (c *SQLiteCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl).UnixNano()
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO entries (key, data, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, expires_at = excluded.expires_at
	`, key, data, expiresAt)
	if err != nil {
		return fmt.Errorf("store entry: %w", err)
	}
	return nil
}

// Delete removes a value.
func (c *SQLiteCache) Delete(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

// Clear removes every entry and returns how many there were.
func (c *SQLiteCache) Clear(ctx context.Context) (int, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM entries`)
	if err != nil {
		return 0, fmt.Errorf("clear entries: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// Path returns the database file.
func (c *SQLiteCache) Path() string { return c.path }

// Close closes the database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

var (
	_ Cache   = (*SQLiteCache)(nil)
	_ Clearer = (*SQLiteCache)(nil)
)
