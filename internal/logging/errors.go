package logging

import "errors"

var (
	// ErrInvalidFilter reports a filter string that could not be parsed.
	ErrInvalidFilter = errors.New("invalid log filter")
	// ErrAlreadyInitialized reports a second attempt to install the process logger.
	ErrAlreadyInitialized = errors.New("logging already initialized")
)
