package ingest

import "errors"

// Sentinel kinds for ingestion errors.
var (
	ErrEmptyInput    = errors.New("no player rows in input")
	ErrMissingHeader = errors.New("missing csv header")
)
