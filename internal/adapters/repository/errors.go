package repository

import "errors"

// Sentinel kinds for snapshot store errors.
var (
	ErrNotFound       = errors.New("player not found")
	ErrInvalidLimit   = errors.New("invalid top-n limit")
	ErrInvalidCluster = errors.New("invalid cluster id")
	ErrNoSnapshot     = errors.New("no snapshot published yet")
)
