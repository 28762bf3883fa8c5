// Package models defines the persisted row types and the decrypted views
// returned to callers. Row types carry encrypted columns verbatim; views
// never contain hashes or ciphertext.
package models

// User is the persisted user row. PasswordHash and MasterKeyHash are
// self-describing PHC strings with independent salts. Avatar, when present,
// is the base64 ciphertext of the encrypted image and AvatarNonce its nonce;
// rows written before avatar encryption existed hold raw base64 and a NULL
// nonce.
type User struct {
	ID            int64
	Username      string
	PasswordHash  string
	MasterKeyHash string
	Avatar        *string
	AvatarNonce   *string
}

// PublicUser is the view returned by Register and Login. Hashes never leave
// the services layer.
type PublicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Public converts a row into its caller-facing view.
func (u *User) Public() *PublicUser {
	return &PublicUser{ID: u.ID, Username: u.Username}
}
