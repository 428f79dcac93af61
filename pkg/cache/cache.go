package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/websift/websift/internal/models"
)

var bucketName = []byte("queries")

// Cache persists query→result-set mappings on disk. Keys are the exact raw
// query string; entries never expire and are only removed by explicit
// invalidation.
type Cache struct {
	db *bolt.DB
}

// Open opens (or creates) the cache database at path.
func Open(path string) (*Cache, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &Cache{db: db}, nil
}

// Get returns the records cached for query. The second return value
// distinguishes a miss from a cached empty result set.
func (c *Cache) Get(query string) ([]models.CombinedRecord, bool, error) {
	var raw []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketName).Get([]byte(query)); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if raw == nil {
		return nil, false, nil
	}

	var records []models.CombinedRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, false, fmt.Errorf("decode cached records for %q: %w", query, err)
	}
	return records, true, nil
}

// Put stores records under the exact query string.
func (c *Cache) Put(query string, records []models.CombinedRecord) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode records for %q: %w", query, err)
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(query), raw)
	})
}

// Contains reports whether query has a cached entry.
func (c *Cache) Contains(query string) bool {
	var found bool
	c.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(bucketName).Get([]byte(query)) != nil
		return nil
	})
	return found
}

// Invalidate removes the entry for query, if any.
func (c *Cache) Invalidate(query string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(query))
	})
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
