// Cache implements the Query Engine's result cache (spec §4.8): keyed by
// (genome_hash, normalized_predicate, options), TTL 5 minutes, LRU
// eviction under a size cap, values over 10KB gzip-compressed. Grounded
// on the teacher's own GetQueryCache/SetQueryCache/CleanupExpiredEntries
// shape (internal/storage/cache.go), generalized with an LRU cap and
// compression the teacher's cache does not need for its smaller values.
package storage

import (
	"bytes"
	"database/sql"
	"io"
	"time"

	"github.com/klauspost/compress/gzip"

	"repogenome/internal/rgerrors"
)

const compressThreshold = 10 * 1024

// Cache is the query result cache backed by DB.
type Cache struct {
	db        *DB
	maxEntries int
}

// NewCache returns a Cache with an LRU cap of maxEntries rows.
func NewCache(db *DB, maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &Cache{db: db, maxEntries: maxEntries}
}

// Get returns the cached value for key if present and unexpired,
// scoped to genomeHash so a stale cache entry from a prior Genome
// generation never leaks across a mutation.
func (c *Cache) Get(key, genomeHash string) ([]byte, bool, error) {
	var value []byte
	var compressed int
	var expiresAt string

	err := c.db.QueryRow(`
		SELECT value, compressed, expires_at FROM query_cache
		WHERE cache_key = ? AND genome_hash = ?
	`, key, genomeHash).Scan(&value, &compressed, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, rgerrors.Wrap(rgerrors.IoError, "query cache lookup", err)
	}

	expiry, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil {
		return nil, false, rgerrors.Wrap(rgerrors.IoError, "parsing cache expiry", err)
	}
	if time.Now().After(expiry) {
		c.db.Exec(`DELETE FROM query_cache WHERE cache_key = ?`, key)
		return nil, false, nil
	}

	c.db.Exec(`UPDATE query_cache SET last_used_at = ? WHERE cache_key = ?`, time.Now().Format(time.RFC3339), key)

	if compressed == 1 {
		value, err = decompress(value)
		if err != nil {
			return nil, false, rgerrors.Wrap(rgerrors.IoError, "decompressing cache entry", err)
		}
	}
	return value, true, nil
}

// Set stores value under key, compressing it when it exceeds
// compressThreshold, and evicts the least-recently-used entries once
// the cache exceeds maxEntries.
func (c *Cache) Set(key, genomeHash string, value []byte, ttl time.Duration) error {
	compressed := 0
	stored := value
	if len(value) > compressThreshold {
		var err error
		stored, err = compress(value)
		if err != nil {
			return rgerrors.Wrap(rgerrors.IoError, "compressing cache entry", err)
		}
		compressed = 1
	}

	now := time.Now()
	_, err := c.db.Exec(`
		INSERT OR REPLACE INTO query_cache
			(cache_key, genome_hash, value, compressed, created_at, expires_at, last_used_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, key, genomeHash, stored, compressed,
		now.Format(time.RFC3339), now.Add(ttl).Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return rgerrors.Wrap(rgerrors.IoError, "writing cache entry", err)
	}
	return c.evictOverflow()
}

// InvalidateAll drops every cached entry (spec §4.8 "cache invalidated
// on any Genome mutation").
func (c *Cache) InvalidateAll() error {
	_, err := c.db.Exec(`DELETE FROM query_cache`)
	if err != nil {
		return rgerrors.Wrap(rgerrors.IoError, "invalidating query cache", err)
	}
	return nil
}

// CleanupExpired removes every entry past its TTL.
func (c *Cache) CleanupExpired() error {
	_, err := c.db.Exec(`DELETE FROM query_cache WHERE expires_at < ?`, time.Now().Format(time.RFC3339))
	if err != nil {
		return rgerrors.Wrap(rgerrors.IoError, "cleaning expired cache entries", err)
	}
	return nil
}

func (c *Cache) evictOverflow() error {
	var count int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM query_cache`).Scan(&count); err != nil {
		return rgerrors.Wrap(rgerrors.IoError, "counting cache entries", err)
	}
	overflow := count - c.maxEntries
	if overflow <= 0 {
		return nil
	}
	_, err := c.db.Exec(`
		DELETE FROM query_cache WHERE cache_key IN (
			SELECT cache_key FROM query_cache ORDER BY last_used_at ASC LIMIT ?
		)
	`, overflow)
	if err != nil {
		return rgerrors.Wrap(rgerrors.IoError, "evicting cache entries", err)
	}
	return nil
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
