package domain

import "errors"

// Sentinel errors returned by Store implementations. Callers classify
// failures with errors.Is; the HTTP layer maps them to status codes.
var (
	// ErrNotFound means the referenced record or collection does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrValidation means the supplied record data is malformed or incomplete.
	ErrValidation = errors.New("invalid record data")

	// ErrStoreUnavailable means the backing store cannot be used, for example
	// because the connection was closed or the data file is unreadable.
	ErrStoreUnavailable = errors.New("store unavailable")
)
