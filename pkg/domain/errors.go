package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrBadArguments is returned when host, path or value is missing.
	ErrBadArguments = errors.New("bad arguments: host, path and value are required")

	// ErrBadPath is returned when a path cannot be turned into a non-empty key sequence.
	ErrBadPath = errors.New("bad path")

	// ErrUnsettable is returned when a target belongs to no known container family
	// and no customizer handled it.
	ErrUnsettable = errors.New("unsettable target")

	// ErrNotAddressable is returned when a list must grow but nothing holds a reference to it.
	ErrNotAddressable = errors.New("list is not addressable")

	// ErrInvalidKey is returned when a key cannot address the target container.
	ErrInvalidKey = errors.New("invalid key for container")

	// ErrOutOfBounds is returned when a position lies beyond the end of a collection.
	ErrOutOfBounds = errors.New("position out of bounds")

	// ErrUnenumerable is returned for weakly referenced collections, which have no order.
	ErrUnenumerable = errors.New("collection cannot be enumerated")

	// ErrInvalidPosition is returned when a collection key is not index-like.
	ErrInvalidPosition = errors.New("invalid position")

	// ErrDocumentNotFound is returned when a document ID cannot be found in the store.
	ErrDocumentNotFound = errors.New("document not found")
)

// ConstructionError reports a failed write at one level of a path.
type ConstructionError struct {
	Depth  int
	Key    any
	Target any
	Err    error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("cannot set key %v at depth %d on %T: %v", e.Key, e.Depth, e.Target, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}
