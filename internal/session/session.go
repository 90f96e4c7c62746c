// Package session keeps each browser session's last reconciled selections so a
// returning request without filter parameters resumes where it left off.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mwiater/prefdash/internal/dashboard"
)

// ErrInvalidID is returned for session identifiers that are not UUIDs.
var ErrInvalidID = errors.New("invalid session id")

// Store persists one SelectionState per (session, pipeline).
type Store interface {
	// Load returns the stored state and whether one existed.
	Load(ctx context.Context, id string, pipeline dashboard.PipelineName) (dashboard.SelectionState, bool, error)
	Save(ctx context.Context, id string, state dashboard.SelectionState) error
	Close() error
}

// NewID returns a fresh random session identifier.
func NewID() string { return uuid.NewString() }

// ValidateID reports whether id is a canonical session identifier.
func ValidateID(id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil || parsed.String() != strings.ToLower(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// Open returns the backend named by kind: none, memory, file or sqlite. path is
// the directory for the file store and the database file for sqlite.
func Open(kind, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "none":
		return Nop{}, nil
	case "memory":
		return NewMemory(), nil
	case "file":
		return NewFileStore(path), nil
	case "sqlite":
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown session store %q", kind)
	}
}

// Nop discards every state.
type Nop struct{}

func (Nop) Load(context.Context, string, dashboard.PipelineName) (dashboard.SelectionState, bool, error) {
	return dashboard.SelectionState{}, false, nil
}

func (Nop) Save(context.Context, string, dashboard.SelectionState) error { return nil }

func (Nop) Close() error { return nil }
