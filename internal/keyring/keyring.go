// Package keyring holds session keys in memory for the lifetime of an
// unlocked session. Keys are derived on unlock and never written to disk;
// re-deriving per process lifetime bounds key exposure to the unlocked
// session and avoids a second secret that would need protection at rest.
package keyring

import (
	"sync"

	"github.com/notevault/notevault/internal/common"
)

// Keyring maps user ids to their derived 32-byte session keys. It is an
// explicitly owned object injected into the services that need it, not
// package-global state. The zero value is not usable; call New.
//
// Keyring never touches the database, so its lock can always be taken after
// a database operation without deadlock risk.
type Keyring struct {
	mu   sync.RWMutex
	keys map[int64][]byte
}

func New() *Keyring {
	return &Keyring{keys: make(map[int64][]byte)}
}

// Put inserts or overwrites the session key for userID. The keyring takes
// ownership of its own copy, so callers may wipe their slice afterwards.
func (k *Keyring) Put(userID int64, key []byte) {
	cp := make([]byte, len(key))
	copy(cp, key)

	k.mu.Lock()
	defer k.mu.Unlock()
	if old, ok := k.keys[userID]; ok {
		common.WipeByteArray(old)
	}
	k.keys[userID] = cp
}

// Get returns the session key for userID. This is the single gate every
// encrypted read and write passes through; it fails with
// ErrSessionNotInitialized if the user has not unlocked.
//
// The caller receives its own copy. The mapped slice is wiped on Remove and
// on overwrite, so handing out the live slice would zero a key mid-use for
// any caller that fetched it once and then loops over rows.
func (k *Keyring) Get(userID int64) ([]byte, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	key, ok := k.keys[userID]
	if !ok {
		return nil, common.ErrSessionNotInitialized
	}
	cp := make([]byte, len(key))
	copy(cp, key)
	return cp, nil
}

// Remove wipes and deletes the session key for userID. Idempotent.
func (k *Keyring) Remove(userID int64) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if key, ok := k.keys[userID]; ok {
		common.WipeByteArray(key)
		delete(k.keys, userID)
	}
}
