// Package kvstore implements a small persistent key-value store backed
// by a single JSON file. The credential layer keeps the session record
// and the user registry in it, mirroring the key-value storage the
// mobile releases used.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/foxlist/internal/filex"
)

// ErrKeyNotFound is returned by Get for an absent key. Match with
// errors.Is.
var ErrKeyNotFound = errors.New("key not found")

// Store describes persistent key-value operations. Values are opaque
// bytes; callers own the encoding.
type Store interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key and persists the store.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key and persists the store. Deleting an absent
	// key is not an error.
	Delete(ctx context.Context, key string) error
}

// FileStore is a Store persisted as one JSON object on disk. Every
// mutation rewrites the whole file; the in-memory map is authoritative
// between writes.
type FileStore struct {
	mu   sync.Mutex
	path string
	data map[string]json.RawMessage
}

// NewFileStore opens (or creates) the store at path. A missing file
// starts the store empty; a malformed file is a hard error.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, data: make(map[string]json.RawMessage)}

	err := filex.ReadJSON(path, &s.data)
	if err != nil && !filex.IsNotExist(err) {
		return nil, fmt.Errorf("loading key-value store: %w", err)
	}
	if s.data == nil {
		s.data = make(map[string]json.RawMessage)
	}
	return s, nil
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return v, nil
}

func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = json.RawMessage(value)
	return filex.WriteJSON(s.path, s.data)
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return filex.WriteJSON(s.path, s.data)
}
