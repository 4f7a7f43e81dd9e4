package audio

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned for catalog or list lookups that miss
	ErrNotFound = errors.New("not found")
	// ErrUnresolved is returned when a name does not match any enumerated value
	ErrUnresolved = errors.New("unresolved name")
	// ErrDuplicate reports an id requested twice while building a set
	ErrDuplicate = errors.New("duplicate skipped")
	// ErrUnknownTarget reports an operation aimed at an id or tag outside the set
	ErrUnknownTarget = errors.New("unknown target")
	// ErrSnapshotMissing reports a backend with no stored snapshot
	ErrSnapshotMissing = errors.New("snapshot missing")
)

// LoadError is returned when a persisted volume snapshot cannot be read.
// Callers decide whether to fall back to defaults.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load volume snapshot from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
