package domain

import (
	"errors"
	"fmt"
)

// ============================================================================
// Storage Errors
// ============================================================================

var (
	// ErrBlobNotFound is returned by blob stores when the object does not exist.
	ErrBlobNotFound = errors.New("blob not found")
	// ErrArtifactNotFound means a pipeline artifact has not been produced yet.
	ErrArtifactNotFound = errors.New("artifact not found")
)

// ============================================================================
// Lookup Errors
// ============================================================================

var (
	ErrKeyNotFound   = errors.New("no data found for the given area and consumer type")
	ErrUnknownColumn = errors.New("unknown column")
)

// ============================================================================
// Table Errors
// ============================================================================

var (
	ErrInvalidTable = errors.New("invalid table")
	ErrDuplicateKey = errors.New("duplicate composite key")
)

// KeyNotFoundError reports that an artifact holds no rows for a query key.
// It matches ErrKeyNotFound with errors.Is.
type KeyNotFoundError struct {
	Artifact string
	Key      Key
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("%s: %d, %d", ErrKeyNotFound, e.Key.Area, e.Key.ConsumerType)
}

func (e *KeyNotFoundError) Is(target error) bool {
	return target == ErrKeyNotFound
}
