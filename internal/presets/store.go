// Package presets persists named parameter sets.
//
// Two backends share the Store interface: a single JSON file mapping names to
// parameter objects, and a SQLite database. Names are case sensitive and
// listed alphabetically.
package presets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ironsheep/promptvision/internal/params"
)

// ErrInvalidName is returned for empty or whitespace-only preset names.
var ErrInvalidName = errors.New("invalid preset name")

// Store saves and loads named parameter sets.
type Store interface {
	// Save creates or overwrites the preset name.
	Save(ctx context.Context, name string, p params.Set) error

	// Load returns the preset. ok is false when no preset has that name.
	Load(ctx context.Context, name string) (p params.Set, ok bool, err error)

	// List returns all preset names in ascending order.
	List(ctx context.Context) ([]string, error)

	// Delete removes the preset and reports whether it existed.
	Delete(ctx context.Context, name string) (bool, error)

	Close() error
}

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Open creates the store for backend at path.
func Open(backend, path string, logger zerolog.Logger) (Store, error) {
	switch backend {
	case BackendJSON, "":
		return NewJSONStore(path, logger), nil
	case BackendSQLite:
		return NewSQLiteStore(path)
	}
	return nil, fmt.Errorf("unknown preset backend %q", backend)
}

// normalizeName trims surrounding whitespace and rejects empty names.
func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	return name, nil
}
