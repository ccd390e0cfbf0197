package store

import (
	"encoding/binary"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.etcd.io/bbolt"
)

const (
	defaultDir       = "cache"
	defaultBatchSize = 100000
	defaultKeysClean = 64
	fillPercent      = 0.9
)

var (
	expireBucketName = []byte("expire")
	// ErrKeyNotFound not found the key
	ErrKeyNotFound = errors.New("key not found")
)

// DB a bbolt.DB with a single bucket, the keys can carry a deadline.
type DB struct {
	bucketName []byte
	db         *bbolt.DB
	interval   time.Duration
	closedC    chan struct{}
	closeOnce  sync.Once
}

// NewDB creates a new DB instance.
// If interval is above 0 the expired keys are deleted periodically.
func NewDB(path, name string, interval time.Duration) (*DB, error) {
	if path == "" {
		path = defaultDir
	}
	if err := os.MkdirAll(path, 0o700); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(filepath.Join(path, name), 0o600, &bbolt.Options{
		Timeout:         1 * time.Second,
		InitialMmapSize: 1024,
	})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(expireBucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	c := &DB{
		bucketName: []byte(name),
		interval:   interval,
		db:         db,
		closedC:    make(chan struct{}),
	}
	go c.expire()
	return c, nil
}

// Put method writes kv according to the bucket.
func (db *DB) Put(key, value []byte) error {
	return db.PutWithTimeout(key, value, 0)
}

// PutWithTimeout method writes kv with timeout according to the bucket.
func (db *DB) PutWithTimeout(key, value []byte, timeout time.Duration) error {
	return db.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(db.bucketName).Put(key, value); err != nil {
			return err
		}
		expire := tx.Bucket(expireBucketName)
		if timeout <= 0 {
			return expire.Delete(key)
		}
		ddl := binary.BigEndian.AppendUint64(nil, uint64(time.Now().Add(timeout).Unix()))
		return expire.Put(key, ddl)
	})
}

// Get reads the value from the bucket with key.
func (db *DB) Get(key []byte) (value []byte, err error) {
	err = db.db.View(func(tx *bbolt.Tx) error {
		if ddl := tx.Bucket(expireBucketName).Get(key); len(ddl) == 8 {
			if time.Now().Unix() > int64(binary.BigEndian.Uint64(ddl)) {
				return ErrKeyNotFound
			}
		}
		v := tx.Bucket(db.bucketName).Get(key)
		if v == nil {
			return ErrKeyNotFound
		}
		value = append([]byte(nil), v...)
		return nil
	})
	return
}

// Delete a specified key from DB.
func (db *DB) Delete(key []byte) error {
	return db.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(expireBucketName).Delete(key); err != nil {
			return err
		}
		return tx.Bucket(db.bucketName).Delete(key)
	})
}

// DeleteBatch delete data in batch.
func (db *DB) DeleteBatch(keys [][]byte) error {
	for offset := 0; offset < len(keys); offset += defaultBatchSize {
		end := min(offset+defaultBatchSize, len(keys))
		err := db.db.Update(func(tx *bbolt.Tx) error {
			bucket := tx.Bucket(db.bucketName)
			bucket.FillPercent = fillPercent
			expire := tx.Bucket(expireBucketName)
			for _, key := range keys[offset:end] {
				if err := bucket.Delete(key); err != nil {
					return err
				}
				if err := expire.Delete(key); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database, the later calls are no-op.
func (db *DB) Close() (err error) {
	db.closeOnce.Do(func() {
		close(db.closedC)
		if err = db.db.Sync(); err != nil {
			_ = db.db.Close()
			return
		}
		err = db.db.Close()
	})
	return
}

// expired returns the keys whose deadline has passed.
func (db *DB) expired(now int64) (keys [][]byte, err error) {
	err = db.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(expireBucketName)
		if bucket.Stats().KeyN < defaultKeysClean {
			return nil
		}
		cursor := bucket.Cursor()
		for key, ddl := cursor.First(); key != nil; key, ddl = cursor.Next() {
			if len(ddl) == 8 && now > int64(binary.BigEndian.Uint64(ddl)) {
				keys = append(keys, append([]byte(nil), key...))
			}
		}
		return nil
	})
	return
}

// expire timing scan the expired keys and delete them.
func (db *DB) expire() {
	if db.interval <= 0 {
		return
	}
	ticker := time.NewTicker(db.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			keys, err := db.expired(time.Now().Unix())
			if err != nil {
				slog.Error("error scanning expired keys", "error", err)
				continue
			}
			if err = db.DeleteBatch(keys); err != nil {
				slog.Error("error cleaning expired keys", "error", err)
			}
		case <-db.closedC:
			return
		}
	}
}
