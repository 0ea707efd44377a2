package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds = errors.New("index out of range")
	ErrNoEnv       = errors.New("no session environment")
	ErrInterrupted = errors.New("interrupted")
)
