package object

import (
	"errors"
	"fmt"
)

// Sentinel errors for the object-read taxonomy. Callers match with
// errors.Is; the concrete types below carry the offending hash.
var (
	ErrNotFound = errors.New("object not found")
	ErrCorrupt  = errors.New("object corrupt")
)

// NotFoundError reports a hash with no object in the store.
type NotFoundError struct {
	Hash Hash
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("object %s: not found", e.Hash)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// CorruptError reports an object that is present but cannot be parsed, or
// whose content does not match its envelope.
type CorruptError struct {
	Hash   Hash
	Reason string
	Err    error
}

func (e *CorruptError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("object %s: corrupt: %s: %v", e.Hash, e.Reason, e.Err)
	}
	return fmt.Sprintf("object %s: corrupt: %s", e.Hash, e.Reason)
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}

func (e *CorruptError) Is(target error) bool {
	return target == ErrCorrupt
}
