package types

import "errors"

// Standard errors returned across the store and builder packages.
var (
	// ErrClosed is returned by store operations after Close.
	ErrClosed = errors.New("store is closed")

	// ErrNoBatch is returned by Commit when no batch transaction is open.
	ErrNoBatch = errors.New("no open batch")

	// ErrBatchOpen is returned by Begin when a batch is already open.
	ErrBatchOpen = errors.New("batch already open")

	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRecord is returned for source records that fail validation.
	ErrInvalidRecord = errors.New("invalid source record")
)
