package oes

import "errors"

var (
	// ErrProofMismatch is returned when a submitted proof does not match
	// the recomputed digest for its claimed generation.
	ErrProofMismatch = errors.New("oes: proof does not match claimed generation")
	// ErrGenerationTooOld is returned when a claimed generation falls
	// outside the tracker's retained acceptance window.
	ErrGenerationTooOld = errors.New("oes: generation outside acceptance window")
)
