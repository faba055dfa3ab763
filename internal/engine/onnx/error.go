package onnx

import "errors"

// Error definitions for the onnx package.
var (
	ErrInvalidConfig   = errors.New("invalid model config")
	ErrInvalidIndexer  = errors.New("invalid unicode indexer")
	ErrUnsupportedLang = errors.New("unsupported language")
	ErrEmptyText       = errors.New("text has no speakable characters")
	ErrUnexpectedShape = errors.New("unexpected tensor shape")
)
