// Package kv provides the key-value stores the task list persists into.
// Every backend stores opaque byte values under string keys.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("key not found")

// Store is a persistent key-value store.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases the store's resources.
	Close() error
}

// Open creates the store described by rawURL.
//
//	""                     local file at defaultPath
//	file:///path/to/file   local file
//	memory:                in-process map
//	redis://, rediss://    Redis
//	postgres://, postgresql://
//	mysql://<dsn>          MySQL, dsn in go-sql-driver format
func Open(ctx context.Context, rawURL, defaultPath string) (Store, error) {
	rawURL = strings.TrimSpace(rawURL)
	switch {
	case rawURL == "":
		return NewFile(defaultPath), nil
	case strings.HasPrefix(rawURL, "file://"):
		path := strings.TrimPrefix(rawURL, "file://")
		if path == "" {
			path = defaultPath
		}
		return NewFile(path), nil
	case rawURL == "memory:" || rawURL == "memory":
		return NewMemory(), nil
	case strings.HasPrefix(rawURL, "redis://"), strings.HasPrefix(rawURL, "rediss://"):
		return NewRedis(ctx, rawURL)
	case strings.HasPrefix(rawURL, "postgres://"), strings.HasPrefix(rawURL, "postgresql://"):
		return NewPostgres(ctx, rawURL)
	case strings.HasPrefix(rawURL, "mysql://"):
		return NewMySQL(ctx, strings.TrimPrefix(rawURL, "mysql://"))
	default:
		return nil, fmt.Errorf("unsupported store: %s", scheme(rawURL))
	}
}

// scheme returns the part of rawURL before "://" so credentials never reach error messages.
func scheme(rawURL string) string {
	if i := strings.Index(rawURL, "://"); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
