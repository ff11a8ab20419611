package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/latticenet/core/log"
)

// FileStore is a JSON-serialized, AEAD-sealed key-value blob persisted to
// a single file, flushed atomically via write-to-temp-then-rename so a
// crash mid-flush never leaves a torn or partially-written container on
// disk.
type FileStore struct {
	path string
	key  [32]byte

	log     log.Logger
	metrics *Metrics

	mu    sync.RWMutex
	cache map[string]json.RawMessage
	dirty bool
}

// OpenFile loads an existing store at path, or starts an empty one if no
// file exists yet. key is the 32-byte AEAD key (see oes.State.DeriveKey or
// any other 32-byte secret derivation).
func OpenFile(path string, key [32]byte, m *Metrics, logger log.Logger) (*FileStore, error) {
	if logger == nil {
		logger = log.NewNoOpLogger()
	}
	s := &FileStore{
		path:    path,
		key:     key,
		log:     logger,
		metrics: m,
		cache:   make(map[string]json.RawMessage),
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}

	plaintext, err := Open(key[:], raw)
	if err != nil {
		s.bumpAuthFailure()
		return nil, err
	}

	if err := json.Unmarshal(plaintext, &s.cache); err != nil {
		return nil, fmt.Errorf("store: unmarshal cache: %w", err)
	}
	s.bumpLoads()
	s.log.Debug("loaded local store", "path", path, "entries", len(s.cache))
	return s, nil
}

// Get retrieves a named value and unmarshals it into v.
func (s *FileStore) Get(name string, v any) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.cache[name]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("store: unmarshal %q: %w", name, err)
	}
	return true, nil
}

// Put marshals v and stores it under name, marking the store dirty.
func (s *FileStore) Put(name string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: marshal %q: %w", name, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[name] = raw
	s.dirty = true
	return nil
}

// Delete removes a named value from the store.
func (s *FileStore) Delete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, name)
	s.dirty = true
}

// Flush seals the current cache and atomically replaces the on-disk file.
// A no-op if nothing has changed since the last flush.
func (s *FileStore) Flush() error {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	serialized, err := json.Marshal(s.cache)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("store: marshal cache: %w", err)
	}

	sealed, err := Seal(s.key[:], serialized)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("store: create parent dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, sealed, 0o600); err != nil {
		return fmt.Errorf("store: write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("store: rename temp file: %w", err)
	}

	s.mu.Lock()
	s.dirty = false
	s.mu.Unlock()

	s.log.Debug("flushed local store", "path", s.path, "bytes", len(sealed))
	s.bumpFlushes()
	return nil
}

func (s *FileStore) bumpFlushes() {
	if s.metrics != nil {
		s.metrics.Flushes.Inc()
	}
}

func (s *FileStore) bumpLoads() {
	if s.metrics != nil {
		s.metrics.Loads.Inc()
	}
}

func (s *FileStore) bumpAuthFailure() {
	if s.metrics != nil {
		s.metrics.AuthFailures.Inc()
	}
}
