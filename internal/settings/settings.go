// Package settings provides a persistent key/value store for user settings.
package settings

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketName = "settings"

// Known keys.
const (
	DiffCommand = "diff/command" // Side-by-side diff command template
	ViewSort    = "view/sort"    // Catalog sort state
	ViewColumns = "view/columns" // Comma-separated visible columns
)

// Keys lists the known keys in display order.
var Keys = []string{DiffCommand, ViewSort, ViewColumns}

// ErrUnknownKey is returned by Set for keys outside Keys.
var ErrUnknownKey = errors.New("unknown setting")

// Store persists settings using BoltDB.
// An empty path gives a memory-only store that forgets everything on Close.
type Store struct {
	db     *bolt.DB // nil for memory-only stores
	memory map[string]string
}

// Open opens or creates the store at path.
// BoltDB's file lock keeps a second instance from opening the same file.
func Open(path string) (*Store, error) {
	if path == "" {
		return &Store{memory: make(map[string]string)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create settings dir: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open settings (locked by another instance?): %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the value for key and whether it was set.
func (s *Store) Get(key string) (string, bool, error) {
	if s.db == nil {
		v, ok := s.memory[key]
		return v, ok, nil
	}

	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		if data := tx.Bucket([]byte(bucketName)).Get([]byte(key)); data != nil {
			value, found = string(data), true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("settings get %s: %w", key, err)
	}
	return value, found, nil
}

// Value returns the value for key, or "" when unset or unreadable.
func (s *Store) Value(key string) string {
	v, _, _ := s.Get(key)
	return v
}

// Set stores value under key. An empty value removes the key.
func (s *Store) Set(key, value string) error {
	if !slices.Contains(Keys, key) {
		return fmt.Errorf("%w %q", ErrUnknownKey, key)
	}

	if s.db == nil {
		if value == "" {
			delete(s.memory, key)
		} else {
			s.memory[key] = value
		}
		return nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if value == "" {
			return b.Delete([]byte(key))
		}
		return b.Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("settings set %s: %w", key, err)
	}
	return nil
}

// Entry is one stored setting.
type Entry struct {
	Key   string
	Value string
}

// List returns every stored setting ordered by key.
func (s *Store) List() ([]Entry, error) {
	var entries []Entry

	if s.db == nil {
		for k, v := range s.memory {
			entries = append(entries, Entry{Key: k, Value: v})
		}
		slices.SortFunc(entries, func(a, b Entry) int { return cmp.Compare(a.Key, b.Key) })
		return entries, nil
	}

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).ForEach(func(k, v []byte) error {
			entries = append(entries, Entry{Key: string(k), Value: string(v)})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("settings list: %w", err)
	}
	return entries, nil
}
