package services

import (
	"encoding/base64"

	"github.com/notevault/notevault/internal/cryptox"
)

const dataURIPrefix = "data:image/webp;base64,"

// decodeImageColumn turns a stored image column (avatar or vault cover) into
// a data URI. Authenticated decryption is tried first. If it fails — or no
// nonce was stored at all — the column is reinterpreted as a raw base64 blob
// written before image encryption was introduced (legacy plaintext branch,
// image columns only; text fields never fall back). A column that is neither
// decryptable nor valid base64 yields nil.
func decodeImageColumn(ciphertextB64 string, nonceB64 *string, key []byte) *string {
	if nonceB64 != nil {
		if plaintext, err := cryptox.DecryptBytes(ciphertextB64, *nonceB64, key); err == nil {
			uri := dataURIPrefix + base64.StdEncoding.EncodeToString(plaintext)
			return &uri
		}
	}

	if raw, err := base64.StdEncoding.DecodeString(ciphertextB64); err == nil {
		uri := dataURIPrefix + base64.StdEncoding.EncodeToString(raw)
		return &uri
	}
	return nil
}
