package queue

import "errors"

// Sentinel kinds for queue errors.
var (
	ErrFull   = errors.New("recluster queue full")
	ErrClosed = errors.New("recluster queue closed")
)
