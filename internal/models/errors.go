package models

import "errors"

// Error kinds shared across the domain. Every domain error wraps exactly one
// of these sentinels so callers can classify failures with errors.Is without
// string matching. The HTTP layer maps kinds to status codes; nothing below
// it logs, swallows, or downgrades them.
var (
	// ErrValidation marks malformed input: blank names, inverted time
	// ranges, negative amounts, too few vote options.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound marks a reference to an entity that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCapacity marks an event whose participant cap is reached.
	ErrCapacity = errors.New("capacity reached")

	// ErrDuplicate marks an attempt to add a member twice.
	ErrDuplicate = errors.New("already exists")

	// ErrConflict marks a candidate time range overlapping an existing
	// schedule or vote in the same event.
	ErrConflict = errors.New("time conflict")

	// ErrState marks an operation that is invalid for the current vote
	// status, such as mutating a closed vote.
	ErrState = errors.New("invalid state")

	// ErrPermission marks a requester who is neither the creator nor the
	// group leader for a guarded mutation, or not a participant at all.
	ErrPermission = errors.New("permission denied")
)
