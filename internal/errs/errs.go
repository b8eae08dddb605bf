package errs

import "errors"

var (
	// ErrDatasetUnavailable means the source file could not be loaded.
	ErrDatasetUnavailable = errors.New("dataset unavailable")
	// ErrMissingColumn means a required column is absent from the export header.
	ErrMissingColumn = errors.New("required column missing")
	// ErrBadFilter means a filter parameter could not be parsed.
	ErrBadFilter = errors.New("invalid filter parameter")
)
