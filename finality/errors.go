package finality

import "errors"

var (
	// ErrUnknownString is returned by operations referencing a string that
	// was never registered.
	ErrUnknownString = errors.New("finality: unknown string")
	// ErrAlreadyTerminal is returned when attempting to transition a
	// string that has already reached Final, Rejected, or Expired.
	ErrAlreadyTerminal = errors.New("finality: string already in a terminal state")
)
