package gateway

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

// Cache persists provider responses in SQLite so repeated lookups of the same
// URL never touch the network inside the TTL window. Both success and
// not-found responses are cacheable; a not-found answer is as expensive to
// recompute as a hit.
type Cache struct {
	db   *sql.DB
	path string
	ttl  time.Duration
}

const cacheSchema = `
CREATE TABLE IF NOT EXISTS response_cache (
    url        TEXT PRIMARY KEY,
    status     INTEGER NOT NULL,
    body       BLOB NOT NULL,
    stored_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_response_cache_stored_at ON response_cache(stored_at);
`

// OpenCache initializes or connects to the response cache database at dir.
func OpenCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		return nil, errors.New("cache directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	dbPath := filepath.Join(dir, "responses.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(cacheSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply cache schema: %w", err)
	}

	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Cache{db: db, path: dbPath, ttl: ttl}, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Path exposes the backing database file for inspection.
func (c *Cache) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

// Get returns the cached status and body for url. Expired rows are deleted
// and reported as a miss.
func (c *Cache) Get(ctx context.Context, url string) (int, []byte, bool, error) {
	if c == nil {
		return 0, nil, false, nil
	}
	var (
		status   int
		body     []byte
		storedAt time.Time
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT status, body, stored_at FROM response_cache WHERE url = ?`, url,
	).Scan(&status, &body, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil, false, nil
	}
	if err != nil {
		return 0, nil, false, fmt.Errorf("read cache row: %w", err)
	}
	if time.Since(storedAt) > c.ttl {
		if err := c.Delete(ctx, url); err != nil {
			return 0, nil, false, err
		}
		return 0, nil, false, nil
	}
	return status, body, true, nil
}

// Put stores or refreshes the cached response for url.
func (c *Cache) Put(ctx context.Context, url string, status int, body []byte) error {
	if c == nil {
		return nil
	}
	if body == nil {
		body = []byte{}
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO response_cache (url, status, body, stored_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET status = excluded.status, body = excluded.body, stored_at = excluded.stored_at`,
		url, status, body, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("write cache row: %w", err)
	}
	return nil
}

// Delete removes the cached response for url, if any. A rate-limited reply
// invalidates whatever was cached for that URL before the cooldown retry.
func (c *Cache) Delete(ctx context.Context, url string) error {
	if c == nil {
		return nil
	}
	if _, err := c.db.ExecContext(ctx, `DELETE FROM response_cache WHERE url = ?`, url); err != nil {
		return fmt.Errorf("delete cache row: %w", err)
	}
	return nil
}

// Clear drops every cached response and reports how many rows were removed.
func (c *Cache) Clear(ctx context.Context) (int64, error) {
	if c == nil {
		return 0, nil
	}
	res, err := c.db.ExecContext(ctx, `DELETE FROM response_cache`)
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return rows, nil
}

// Stats reports the number of live and expired rows.
func (c *Cache) Stats(ctx context.Context) (live, expired int64, err error) {
	if c == nil {
		return 0, 0, nil
	}
	cutoff := time.Now().UTC().Add(-c.ttl)
	err = c.db.QueryRowContext(ctx,
		`SELECT
		    COUNT(CASE WHEN stored_at >= ? THEN 1 END),
		    COUNT(CASE WHEN stored_at < ? THEN 1 END)
		 FROM response_cache`, cutoff, cutoff,
	).Scan(&live, &expired)
	if err != nil {
		return 0, 0, fmt.Errorf("read cache stats: %w", err)
	}
	return live, expired, nil
}
