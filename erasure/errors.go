package erasure

import "errors"

var (
	// ErrUnknownRequest is returned for operations on a request id that
	// was never submitted.
	ErrUnknownRequest = errors.New("erasure: unknown request")
	// ErrMissingLegalAuth is returned when a LegalOrder reason is
	// submitted without an authorization proof.
	ErrMissingLegalAuth = errors.New("erasure: legal order requires an authorization proof")
	// ErrAlreadyDecided is returned when authorizing or denying a request
	// that has already left PendingAuthorization.
	ErrAlreadyDecided = errors.New("erasure: request already authorized or denied")
	// ErrNotAuthorized is returned when a confirmation arrives for a
	// request that hasn't been authorized yet.
	ErrNotAuthorized = errors.New("erasure: request not yet authorized")
	// ErrDuplicateConfirmer is returned when the same node confirms the
	// same request twice.
	ErrDuplicateConfirmer = errors.New("erasure: node already confirmed this request")
)
