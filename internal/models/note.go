package models

// NoteRow is the persisted note row with encrypted title/content columns.
type NoteRow struct {
	ID               string
	VaultID          string
	TitleEncrypted   string
	TitleNonce       string
	ContentEncrypted string
	ContentNonce     string
	CreatedAt        int64
	Position         int64
}

// Note is the decrypted view.
type Note struct {
	ID        string `json:"id"`
	VaultID   string `json:"vault_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"created_at"`
	Position  int64  `json:"position"`
}
