package testimony

import "errors"

var (
	// ErrDuplicateTestimony is returned when the same attestor submits a
	// second cryptographic testimony for the same target.
	ErrDuplicateTestimony = errors.New("testimony: duplicate testimony from attestor")
	// ErrInvalidConfidence is returned when an AI testimony's confidence is
	// outside [0, 1].
	ErrInvalidConfidence = errors.New("testimony: confidence out of [0,1] range")
	// ErrUnknownPolicy is returned when evaluating a collection against a
	// policy with no matching action classification registered.
	ErrUnknownPolicy = errors.New("testimony: unknown policy classification")
)
