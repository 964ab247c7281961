package memo

import "errors"

// Error kinds surfaced by Store. File collaborators wrap ErrPermissionDenied
// or ErrIOFailure so callers can match them with errors.Is.
var (
	// ErrPermissionDenied is returned when the backing file may not be read or written.
	ErrPermissionDenied = errors.New("permission denied on memo file")

	// ErrIOFailure is returned when a read, append or rewrite failed at the storage layer.
	ErrIOFailure = errors.New("memo file i/o failure")

	// ErrInvalidIndex is returned when Update or Remove targets a position outside the list.
	ErrInvalidIndex = errors.New("entry index out of range")

	// ErrNotLoaded is returned when a mutating operation runs before a successful Load.
	ErrNotLoaded = errors.New("memo store not loaded")
)
