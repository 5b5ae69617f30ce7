package repository

import "errors"

// Sentinel kinds for store errors. Services translate ErrNotFound into the
// fault taxonomy with entity context.
var (
	ErrNotFound = errors.New("record not found")
)
