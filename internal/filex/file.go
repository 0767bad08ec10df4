// Package filex contains small filesystem helpers for the on-device
// data directory and the JSON blobs persisted into it.
package filex

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// EnsureDir creates dir (and parents) if needed and returns it.
func EnsureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// ReadJSON loads the JSON file at path into v. Returns os.ErrNotExist
// (wrapped) when the file does not exist; the caller decides whether
// that means "start empty".
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// WriteJSON rewrites the file at path with the JSON encoding of v.
// The write goes through a temp file in the same directory followed by
// a rename, so readers never observe a half-written blob.
func WriteJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o660); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

// IsNotExist reports whether err means the underlying file is absent.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
