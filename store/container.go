// Package store implements the encrypted local persistence container:
// an AEAD-sealed, atomically-flushed file format for node state that must
// survive process restarts.
//
// Grounded on original_source/crates/rope-agent-runtime/src/memory.rs's
// encrypted memory store, with its illustrative XOR/blake3-MAC cipher
// replaced by the teacher's real AEAD construction (qzmq/qzmq.go's
// ChaCha20-Poly1305 session cipher) and its ad-hoc nonce||ciphertext||mac
// framing kept as the on-disk layout.
package store

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// Seal encrypts plaintext under key (32 bytes) and returns
// nonce||ciphertext||tag, a single self-describing container.
func Seal(key, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("store: construct aead: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("store: generate nonce: %w", err)
	}

	sealed := aead.Seal(nil, nonce, plaintext, nil)
	container := make([]byte, 0, len(nonce)+len(sealed))
	container = append(container, nonce...)
	container = append(container, sealed...)
	return container, nil
}

// Open decrypts a nonce||ciphertext||tag container produced by Seal under
// key, returning ErrAuthenticationFailed if the tag doesn't verify.
func Open(key, container []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("store: construct aead: %w", err)
	}

	if len(container) < aead.NonceSize()+aead.Overhead() {
		return nil, ErrContainerTooShort
	}

	nonce := container[:aead.NonceSize()]
	sealed := container[aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}
