// Package cryptox implements the key-derivation and field-envelope layer:
// argon2id key derivation from a user-supplied master key, and authenticated
// AES-256-GCM encryption of individual record fields.
//
// Every encrypted attribute is stored as a pair of base64 strings: the
// ciphertext (with its 16-byte authentication tag) and a 12-byte nonce drawn
// fresh for every encryption call, including re-encryption of unchanged
// content. No associated data is bound into the AEAD call so rows written by
// earlier versions of the application stay decryptable.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/notevault/notevault/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	// KeyLength is the derived symmetric key size in bytes (AES-256).
	KeyLength = 32
	// NonceLength is the GCM nonce size in bytes.
	NonceLength = 12
)

// Argon2id cost parameters, shared by key derivation and secret hashing.
// Deliberately slow (hundreds of milliseconds) as a brute-force deterrent.
const (
	argonMemory  = 64 * 1024
	argonTime    = 3
	argonThreads = 1
)

// DeriveKey derives a 32-byte symmetric key from a master key and a salt
// using argon2id (64 MiB, 3 iterations, 1 lane).
//
// The function is deterministic: identical (masterKey, salt) always yields
// the identical key, which is what allows the key to be recomputed every
// session from the salt embedded in the stored master-key hash instead of
// being persisted anywhere.
func DeriveKey(masterKey string, salt []byte) ([]byte, error) {
	if len(salt) == 0 {
		return nil, fmt.Errorf("%w: empty salt", common.ErrKeyDerivationFailed)
	}
	return argon2.IDKey([]byte(masterKey), salt, argonTime, argonMemory, argonThreads, KeyLength), nil
}

// EncryptField encrypts a text field and returns the base64-encoded
// ciphertext and nonce pair.
func EncryptField(plaintext string, key []byte) (ciphertextB64, nonceB64 string, err error) {
	return EncryptBytes([]byte(plaintext), key)
}

// DecryptField reverses EncryptField. All failure causes (bad base64, wrong
// nonce length, authentication failure) surface as ErrDecryptionFailed.
func DecryptField(ciphertextB64, nonceB64 string, key []byte) (string, error) {
	plaintext, err := DecryptBytes(ciphertextB64, nonceB64, key)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// EncryptBytes encrypts a binary payload (avatar or vault image) with a
// fresh random nonce and returns the base64-encoded ciphertext and nonce.
func EncryptBytes(plaintext, key []byte) (ciphertextB64, nonceB64 string, err error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", common.ErrEncryptionFailed, err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", common.ErrEncryptionFailed, err)
	}

	nonce := make([]byte, NonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return "", "", fmt.Errorf("%w: %v", common.ErrEncryptionFailed, err)
	}

	ciphertext := aesgcm.Seal(nil, nonce, plaintext, nil)

	return base64.StdEncoding.EncodeToString(ciphertext), base64.StdEncoding.EncodeToString(nonce), nil
}

// DecryptBytes reverses EncryptBytes.
//
// Malformed base64, a nonce that is not exactly 12 bytes and a failed
// authentication-tag check (wrong key, corrupted ciphertext, mismatched
// nonce) are intentionally not distinguished: every cause returns
// ErrDecryptionFailed so callers cannot be used as an oracle separating
// "wrong key" from "corrupted data".
func DecryptBytes(ciphertextB64, nonceB64 string, key []byte) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(ciphertextB64)
	if err != nil {
		return nil, common.ErrDecryptionFailed
	}
	nonce, err := base64.StdEncoding.DecodeString(nonceB64)
	if err != nil {
		return nil, common.ErrDecryptionFailed
	}
	if len(nonce) != NonceLength {
		return nil, common.ErrDecryptionFailed
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, common.ErrDecryptionFailed
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, common.ErrDecryptionFailed
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, common.ErrDecryptionFailed
	}
	return plaintext, nil
}
