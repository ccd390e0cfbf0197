// Package store the bbolt backed cache of the parsed URL records.
package store

import (
	"crypto/md5" //nolint:gosec
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"
)

const (
	// DefaultPath the default directory of the database file, "~" is expanded by the config
	DefaultPath = "~/.cache/weburl"
	// DefaultTTL the default time to live of the cached records
	DefaultTTL = 24 * time.Hour

	defaultInterval = 10 * time.Minute
	fileName        = "weburl.db"
)

// Options the store configuration
type Options struct {
	Path                string        `yaml:"path"`
	TTL                 time.Duration `yaml:"ttl"`
	ExpireCleanInterval time.Duration `yaml:"expire-clean-interval"`
}

// Store is an implementation of the cache that stores bytes in bolt.DB.
type Store struct {
	db  *DB
	ttl time.Duration
}

// New returns a new Store that will store items in bolt.DB.
func New(opt Options) (*Store, error) {
	interval := opt.ExpireCleanInterval
	if interval == 0 {
		interval = defaultInterval
	}
	db, err := NewDB(opt.Path, fileName, interval)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", opt.Path, err)
	}
	return &Store{db: db, ttl: opt.TTL}, nil
}

// Key returns the cache key of the input resolved against the base.
func Key(input, base string) string {
	hash := md5.Sum([]byte(input + "\x00" + base)) //nolint:gosec
	return hex.EncodeToString(hash[:])
}

// Get returns the []byte and true, if not existing returns false.
func (s *Store) Get(key string) ([]byte, bool) {
	value, err := s.db.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	return value, true
}

// Set saves []byte to the store with key, it expires after the ttl.
func (s *Store) Set(key string, value []byte) {
	if err := s.db.PutWithTimeout([]byte(key), value, s.ttl); err != nil {
		slog.Error(fmt.Sprintf("failed to set store with key %s", key), "error", err)
	}
}

// Del removes key from the store.
func (s *Store) Del(key string) {
	if err := s.db.Delete([]byte(key)); err != nil {
		slog.Error(fmt.Sprintf("failed to delete store with key %s", key), "error", err)
	}
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }
