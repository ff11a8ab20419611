package store

import "errors"

var (
	// ErrContainerTooShort is returned when a container is smaller than a
	// nonce plus the AEAD overhead, so it cannot possibly hold a valid
	// nonce||ciphertext||mac record.
	ErrContainerTooShort = errors.New("store: container shorter than nonce+tag")
	// ErrAuthenticationFailed is returned when the AEAD tag does not
	// verify — either the key is wrong or the container was tampered with.
	ErrAuthenticationFailed = errors.New("store: mac verification failed")
)
