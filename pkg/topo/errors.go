package topo

import "github.com/pkg/errors"

// Errors
var (
	ErrOutOfRange      = errors.New("index out of range")
	ErrMismatchedStore = errors.New("edge graphs do not share a vertex store")
	ErrDegenerate      = errors.New("degenerate geometry")
)
