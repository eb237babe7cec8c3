// Package storage persists custom words per language. The personal
// dictionary manager writes the whole list of a language on every change,
// so backends only need whole-list load and replace.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Store is a durable home for custom word lists.
type Store interface {
	// Load returns the persisted words of lang. A language that was never
	// saved yields an empty list and no error.
	Load(ctx context.Context, lang string) ([]string, error)
	// Save replaces the persisted words of lang. An empty list removes it.
	Save(ctx context.Context, lang string, words []string) error
	// Languages lists every language with persisted words, sorted.
	Languages(ctx context.Context) ([]string, error)
	Close() error
}

// Open creates the backend named by backend, rooted at path. For the file
// backend path is a directory; for sqlite it is the database file.
func Open(backend, path string) (Store, error) {
	switch backend {
	case "", BackendFile:
		return NewFileStore(path)
	case BackendSQLite:
		return OpenSQLite(path)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}
