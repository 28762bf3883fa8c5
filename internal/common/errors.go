// Package common defines shared constants and sentinel errors used across
// NoteVault components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Credential errors. Password and master-key mismatches are deliberately
	// reported as the same value so a correct password cannot be used to
	// probe the master key (and vice versa).
	ErrInvalidCredential = errors.New("invalid credential")

	// Session errors.
	ErrSessionNotInitialized = errors.New("session not initialized")

	// Crypto errors. Base64 failures, bad nonce length and authentication
	// failures all surface as ErrDecryptionFailed.
	ErrKeyDerivationFailed = errors.New("key derivation failed")
	ErrEncryptionFailed    = errors.New("encryption failed")
	ErrDecryptionFailed    = errors.New("decryption failed")
)
