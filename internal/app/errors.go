package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted       = errors.New("service not started")
	ErrDuplicateRequest = errors.New("duplicate recluster request")
	ErrBackpressure     = errors.New("recluster queue is full")
	ErrNoPlayers        = errors.New("no players loaded")
)
