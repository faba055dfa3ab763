package config

import "errors"

// Error definitions for the config package.
var (
	ErrUnsupportedFormat = errors.New("unsupported config file format")
)
