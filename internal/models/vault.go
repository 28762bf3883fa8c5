package models

// VaultRow is the persisted vault row with encrypted name/image columns.
type VaultRow struct {
	ID            string
	UserID        int64
	NameEncrypted string
	NameNonce     string
	Color         string
	Image         *string
	ImageNonce    *string
	CreatedAt     int64
	Position      int64
}

// Vault is the decrypted view. Image, when present, is a
// "data:image/webp;base64," data URI, never raw bytes.
type Vault struct {
	ID        string  `json:"id"`
	UserID    int64   `json:"user_id"`
	Name      string  `json:"name"`
	Color     string  `json:"color"`
	Image     *string `json:"image"`
	CreatedAt int64   `json:"created_at"`
	Position  int64   `json:"position"`
}
