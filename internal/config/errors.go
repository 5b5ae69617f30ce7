package config

import "errors"

// Sentinel kinds for configuration errors.
var (
	ErrEmptyAddr          = errors.New("addr must not be empty")
	ErrUnknownStore       = errors.New("store must be memory or postgres")
	ErrMissingDatabaseURL = errors.New("database_url is required for the postgres store")
	ErrBadBoardSpace      = errors.New("board_count must be at least 1")
)
