package docstore

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested document does not exist.
	ErrNotFound = errors.New("docstore: not found")
	// ErrDuplicate is returned when an insert collides with an existing
	// document on a unique attribute.
	ErrDuplicate = errors.New("docstore: duplicate")
	// ErrUnavailable wraps transient backend failures. Callers surface it
	// unchanged; no automatic retry is performed.
	ErrUnavailable = errors.New("docstore: backend unavailable")
)

// MissingIndexError is the backend's classification for an ordered or
// filtered query that lacks a supporting index. It is the only error with a
// built-in recovery path: the store replays the query without the order
// clause and sorts client-side.
type MissingIndexError struct {
	Collection string
	Detail     string
}

func (e *MissingIndexError) Error() string {
	return fmt.Sprintf("docstore: query on %q requires an index: %s", e.Collection, e.Detail)
}

// IsMissingIndex reports whether err carries the missing-index classification.
func IsMissingIndex(err error) bool {
	var mie *MissingIndexError
	return errors.As(err, &mie)
}
