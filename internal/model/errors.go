package model

import "errors"

// Error types for xtag operations
var (
	ErrNoAttribute      = errors.New("extended attribute not present")
	ErrUnsupported      = errors.New("filesystem does not support extended attributes")
	ErrInvalidRecord    = errors.New("stored record is malformed")
	ErrUnknownAlgorithm = errors.New("unknown hash algorithm")
	ErrNotRegular       = errors.New("not a regular file or directory")
	ErrLoopDetected     = errors.New("file system loop detected")
)
