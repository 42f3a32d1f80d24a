package state

import "errors"

var (
	// ErrNotFound is returned when no record exists for the requested identifier.
	ErrNotFound = errors.New("state record not found")
	// ErrGenerateID is returned when the random source fails to produce an identifier.
	ErrGenerateID = errors.New("failed to generate state identifier")
)
