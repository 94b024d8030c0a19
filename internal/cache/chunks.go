package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"legalrag/internal/domain"
)

const schema = `CREATE TABLE IF NOT EXISTS chunk_cache (
	key        TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	chunks     TEXT NOT NULL,
	created_at INTEGER NOT NULL
)`

// ChunkCache stores the chunks produced for a file, keyed by Key. Entries
// can be dropped at any time; a miss only costs a re-extraction.
type ChunkCache struct {
	db *sql.DB
}

// Open opens or creates the cache database at dsn.
func Open(dsn string) (*ChunkCache, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening chunk cache: %w", err)
	}
	// Writers come from several ingest workers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating chunk cache schema: %w", err)
	}
	return &ChunkCache{db: db}, nil
}

// Close closes the database connection.
func (c *ChunkCache) Close() error {
	return c.db.Close()
}

// Get returns the cached chunks for key. ok is false on a miss.
func (c *ChunkCache) Get(ctx context.Context, key string) (chunks []domain.Chunk, ok bool, err error) {
	var raw string
	err = c.db.QueryRowContext(ctx, `SELECT chunks FROM chunk_cache WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading chunk cache: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &chunks); err != nil {
		return nil, false, fmt.Errorf("decoding cached chunks: %w", err)
	}
	return chunks, true, nil
}

// Put stores chunks for key, replacing any previous entry.
func (c *ChunkCache) Put(ctx context.Context, key, source string, chunks []domain.Chunk) error {
	if chunks == nil {
		chunks = []domain.Chunk{}
	}
	raw, err := json.Marshal(chunks)
	if err != nil {
		return fmt.Errorf("encoding chunks: %w", err)
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO chunk_cache (key, source, chunks, created_at) VALUES (?, ?, ?, ?)`,
		key, source, string(raw), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("writing chunk cache: %w", err)
	}
	return nil
}

// Purge removes every entry.
func (c *ChunkCache) Purge(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM chunk_cache`); err != nil {
		return fmt.Errorf("purging chunk cache: %w", err)
	}
	return nil
}
