package engine

import "errors"

// Error definitions for the engine package.
var (
	ErrMalformedStyle = errors.New("malformed voice style")
)
