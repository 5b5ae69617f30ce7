package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrMissingFilter = errors.New("presenter or evaluator filter is required")
)
