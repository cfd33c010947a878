package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"todo/internal/logger"
)

// File stores all keys in one JSON object on local disk.
// Writes go to a temporary file that is renamed over the original.
// A file that does not parse is moved aside and treated as empty.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile returns a File store at path. The file is created on first Set.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the backing file path.
func (f *File) Path() string { return f.path }

// Get implements Store.
func (f *File) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return nil, err
	}
	v, ok := values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(v), nil
}

// Set implements Store.
func (f *File) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return err
	}
	values[key] = string(value)

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".store-*.json")
	if err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write store: %w", err)
	}
	return nil
}

// Close implements Store.
func (f *File) Close() error { return nil }

func (f *File) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store: %w", err)
	}

	values := make(map[string]string)
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		if qerr := f.quarantine(err); qerr != nil {
			return nil, qerr
		}
		return make(map[string]string), nil
	}
	return values, nil
}

// quarantine renames an unparseable store file to <path>.corrupt-<unix ms>.
func (f *File) quarantine(cause error) error {
	backup := fmt.Sprintf("%s.corrupt-%d", f.path, time.Now().UnixMilli())
	if err := os.Rename(f.path, backup); err != nil {
		return fmt.Errorf("corrupt store file %s: %w (could not move it aside: %v)", f.path, cause, err)
	}
	logger.With("store", "file").Warn("store file was not valid JSON, starting empty",
		"path", f.path, "backup", backup, "error", cause)
	return nil
}
