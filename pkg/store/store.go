// Package store keeps the console's small local state (workstation name,
// last list filter) on disk between runs.
package store

import (
	"errors"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// Well-known keys.
const (
	KeyPCName     = "pc_name"
	KeyLastFilter = "last_filter"
)

// Store is a flat string key/value store.
type Store struct {
	d *diskv.Diskv
}

// Open creates the store under the given base path.
func Open(basePath string) (*Store, error) {
	if basePath == "" {
		return nil, errors.New("store: no base path")
	}
	return &Store{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		CacheSizeMax: 64 * 1024,
	})}, nil
}

// Get returns the stored value for a key, empty when absent.
func (s *Store) Get(key string) string {
	val, err := s.d.Read(key)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(val))
}

// Set writes a value. An empty value removes the key.
func (s *Store) Set(key, value string) error {
	if strings.TrimSpace(value) == "" {
		return s.Delete(key)
	}
	return s.d.Write(key, []byte(value))
}

// Delete removes a key; missing keys are fine.
func (s *Store) Delete(key string) error {
	if err := s.d.Erase(key); err != nil && s.d.Has(key) {
		return err
	}
	return nil
}
