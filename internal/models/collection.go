package models

// CollectionRow is the persisted collection row. VaultIDs is a JSON-encoded
// ordered list of vault ids; membership is plaintext, only the name is
// encrypted.
type CollectionRow struct {
	ID            string
	UserID        int64
	NameEncrypted string
	NameNonce     string
	VaultIDs      string
	CreatedAt     int64
	Position      int64
}

// Collection is the decrypted view.
type Collection struct {
	ID        string   `json:"id"`
	UserID    int64    `json:"user_id"`
	Name      string   `json:"name"`
	VaultIDs  []string `json:"vault_ids"`
	CreatedAt int64    `json:"created_at"`
	Position  int64    `json:"position"`
}
