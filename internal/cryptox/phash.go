package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/notevault/notevault/internal/common"
	"golang.org/x/crypto/argon2"
)

const saltLength = 16

// HashSecret hashes a password or master key into a self-describing PHC
// string with a fresh random salt:
//
//	$argon2id$v=19$m=65536,t=3,p=1$<salt-b64>$<digest-b64>
//
// The string carries algorithm, version, cost parameters and salt, so
// verification and salt extraction need no out-of-band state. Both hashes of
// a user (login password and master key) use this format with independent
// salts.
func HashSecret(secret string) (string, error) {
	salt := common.GenerateRandByteArray(saltLength)
	digest := argon2.IDKey([]byte(secret), salt, argonTime, argonMemory, argonThreads, KeyLength)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest))

	return encoded, nil
}

// VerifySecret recomputes the digest for secret using the parameters and
// salt embedded in encoded and compares it in constant time.
func VerifySecret(secret, encoded string) (bool, error) {
	memory, time, threads, salt, digest, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(secret), salt, time, memory, threads, uint32(len(digest)))

	return subtle.ConstantTimeCompare(candidate, digest) == 1, nil
}

// SaltFromHash extracts the salt embedded in a PHC hash string. Session key
// derivation always uses the salt of the already-verified master-key hash,
// never a freshly generated one, so a derived key can never pair with the
// wrong salt.
func SaltFromHash(encoded string) ([]byte, error) {
	_, _, _, salt, _, err := decodeHash(encoded)
	if err != nil {
		return nil, err
	}
	return salt, nil
}

func decodeHash(encoded string) (memory, time uint32, threads uint8, salt, digest []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, fmt.Errorf("malformed hash: expected argon2id PHC string")
	}

	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("malformed hash: %w", err)
	}
	if version != argon2.Version {
		return 0, 0, 0, nil, nil, fmt.Errorf("unsupported argon2 version: %d", version)
	}

	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("malformed hash: %w", err)
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("malformed hash salt: %w", err)
	}
	digest, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("malformed hash digest: %w", err)
	}

	return memory, time, threads, salt, digest, nil
}
