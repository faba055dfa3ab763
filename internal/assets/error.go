package assets

import "errors"

// Error definitions for the assets package.
var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrTimeout          = errors.New("asset download timed out")
)
