// Package xos provides atomic file writes for run artifacts.
package xos

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteJSON writes v as indented JSON to filename, creating the parent
// directory if needed. Readers never observe a partially written file.
func WriteJSON(filename string, v any, perm os.FileMode) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filename, err)
	}
	data = append(data, '\n')

	if err := EnsureDir(filepath.Dir(filename)); err != nil {
		return err
	}
	return WriteFile(filename, data, perm)
}

// EnsureDir creates path and any missing parents.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	return nil
}
