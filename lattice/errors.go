package lattice

import "errors"

var (
	// ErrMissingParent is returned when add_string references a parent
	// that does not exist in the lattice. It is also returned by
	// MarkErased when id is not a known string.
	ErrMissingParent = errors.New("lattice: missing parent")
	// ErrParentErased is returned when add_string references a parent
	// that has been tombstoned by a prior erasure.
	ErrParentErased = errors.New("lattice: parent erased")
	// ErrInvalidSignature is returned when the creator's signature over
	// the canonical encoding does not verify.
	ErrInvalidSignature = errors.New("lattice: invalid signature")
	// ErrInvalidOESProof is returned when the OES proof's generation
	// falls outside the accepted window around the current generation.
	ErrInvalidOESProof = errors.New("lattice: invalid OES proof")
	// ErrBackpressureFull is returned when the pending-string watermark
	// has been exceeded.
	ErrBackpressureFull = errors.New("lattice: backpressure full")
	// ErrReplicationRange is returned when ρ is outside [3,10].
	ErrReplicationRange = errors.New("lattice: replication factor out of [3,10] range")
	// ErrNotErasable is returned when mark_erased targets an Immutable string.
	ErrNotErasable = errors.New("lattice: string is not erasable")
)
