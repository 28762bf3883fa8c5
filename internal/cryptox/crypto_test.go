package cryptox

import (
	"bytes"
	"errors"
	"testing"

	"github.com/notevault/notevault/internal/common"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	salt := []byte("fixed-salt-16byt")

	key1, err := DeriveKey("master-key", salt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	key2, err := DeriveKey("master-key", salt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}
	if len(key1) != KeyLength {
		t.Errorf("expected %d-byte key, got %d", KeyLength, len(key1))
	}
}

func TestDeriveKey_DifferentInputs(t *testing.T) {
	key1, err := DeriveKey("master-key", []byte("salt-1-salt-1-sa"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	key2, err := DeriveKey("master-key", []byte("salt-2-salt-2-sa"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if bytes.Equal(key1, key2) {
		t.Errorf("expected different results for different salts, got same")
	}
}

func TestDeriveKey_EmptySalt(t *testing.T) {
	_, err := DeriveKey("master-key", nil)
	if !errors.Is(err, common.ErrKeyDerivationFailed) {
		t.Errorf("expected ErrKeyDerivationFailed, got %v", err)
	}
}

func TestEncryptField_RoundTrip(t *testing.T) {
	key := common.GenerateRandByteArray(KeyLength)

	tests := []struct {
		name      string
		plaintext string
	}{
		{"simple", "Personal"},
		{"empty", ""},
		{"unicode", "Заметки 📝 ノート"},
		{"multiline", "line one\nline two\n\ttabbed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, nonce, err := EncryptField(tt.plaintext, key)
			if err != nil {
				t.Fatalf("encrypt: %v", err)
			}
			got, err := DecryptField(ct, nonce, key)
			if err != nil {
				t.Fatalf("decrypt: %v", err)
			}
			if got != tt.plaintext {
				t.Errorf("round trip mismatch: got %q, want %q", got, tt.plaintext)
			}
		})
	}
}

func TestEncryptBytes_RoundTrip(t *testing.T) {
	key := common.GenerateRandByteArray(KeyLength)
	payload := []byte{0x00, 0xff, 0x10, 0x80, 0x7f}

	ct, nonce, err := EncryptBytes(payload, key)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	got, err := DecryptBytes(ct, nonce, key)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("round trip mismatch: got %x, want %x", got, payload)
	}
}

func TestEncryptField_NonceFreshness(t *testing.T) {
	key := common.GenerateRandByteArray(KeyLength)

	ct1, nonce1, err := EncryptField("same plaintext", key)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	ct2, nonce2, err := EncryptField("same plaintext", key)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if nonce1 == nonce2 {
		t.Errorf("expected fresh nonce per call, got identical nonces")
	}
	if ct1 == ct2 {
		t.Errorf("expected different ciphertexts for same plaintext, got identical")
	}
}

func TestDecryptField_WrongKey(t *testing.T) {
	key1 := common.GenerateRandByteArray(KeyLength)
	key2 := common.GenerateRandByteArray(KeyLength)

	ct, nonce, err := EncryptField("secret", key1)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if _, err := DecryptField(ct, nonce, key2); !errors.Is(err, common.ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestDecryptField_MalformedInputs(t *testing.T) {
	key := common.GenerateRandByteArray(KeyLength)
	ct, nonce, err := EncryptField("secret", key)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	tests := []struct {
		name       string
		ciphertext string
		nonce      string
	}{
		{"bad ciphertext base64", "%%%not-base64%%%", nonce},
		{"bad nonce base64", ct, "%%%not-base64%%%"},
		{"short nonce", ct, "c2hvcnQ="}, // "short", 5 bytes decoded
		{"tampered ciphertext", "AAAA" + ct[4:], nonce},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecryptField(tt.ciphertext, tt.nonce, key); !errors.Is(err, common.ErrDecryptionFailed) {
				t.Errorf("expected ErrDecryptionFailed, got %v", err)
			}
		})
	}
}
