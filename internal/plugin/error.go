package plugin

import "errors"

// Error definitions for the plugin package.
var (
	ErrNoEngineFactory = errors.New("no synthesis engine factory configured")
)
