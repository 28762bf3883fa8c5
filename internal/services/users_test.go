package services

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/notevault/notevault/internal/common"
	"github.com/notevault/notevault/internal/cryptox"
	"github.com/stretchr/testify/require"
)

func TestRegister_DuplicateUsername(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	_, err := e.users.Register(ctx, "alice", "pw1", "mk1")
	require.NoError(t, err)

	_, err = e.users.Register(ctx, "alice", "other", "other")
	require.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestRegister_IndependentSalts(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	user, err := e.users.Register(ctx, "alice", "pw1", "mk1")
	require.NoError(t, err)

	var passwordHash, masterKeyHash string
	require.NoError(t, e.db.QueryRow(
		`SELECT password_hash, master_key_hash FROM users WHERE id = ?`, user.ID).
		Scan(&passwordHash, &masterKeyHash))

	pwSalt, err := cryptox.SaltFromHash(passwordHash)
	require.NoError(t, err)
	mkSalt, err := cryptox.SaltFromHash(masterKeyHash)
	require.NoError(t, err)
	require.NotEqual(t, pwSalt, mkSalt)
}

func TestLogin(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	_, err := e.users.Register(ctx, "alice", "pw1", "mk1")
	require.NoError(t, err)

	t.Run("unknown username", func(t *testing.T) {
		_, err := e.users.Login(ctx, "bob", "pw1", "mk1")
		require.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := e.users.Login(ctx, "alice", "wrong", "mk1")
		require.ErrorIs(t, err, common.ErrInvalidCredential)
	})

	t.Run("right password wrong master key", func(t *testing.T) {
		_, err := e.users.Login(ctx, "alice", "pw1", "wrong-mk")
		require.ErrorIs(t, err, common.ErrInvalidCredential)
	})

	t.Run("success", func(t *testing.T) {
		user, err := e.users.Login(ctx, "alice", "pw1", "mk1")
		require.NoError(t, err)
		require.Equal(t, "alice", user.Username)
	})
}

func TestRecoverPassword(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	user, err := e.users.Register(ctx, "alice", "pw1", "mk1")
	require.NoError(t, err)

	var masterHashBefore string
	require.NoError(t, e.db.QueryRow(
		`SELECT master_key_hash FROM users WHERE id = ?`, user.ID).Scan(&masterHashBefore))

	require.ErrorIs(t,
		e.users.RecoverPassword(ctx, "alice", "wrong-mk", "pw2"),
		common.ErrInvalidCredential)
	require.ErrorIs(t,
		e.users.RecoverPassword(ctx, "nobody", "mk1", "pw2"),
		common.ErrNotFound)

	require.NoError(t, e.users.RecoverPassword(ctx, "alice", "mk1", "pw2"))

	_, err = e.users.Login(ctx, "alice", "pw1", "mk1")
	require.ErrorIs(t, err, common.ErrInvalidCredential)
	_, err = e.users.Login(ctx, "alice", "pw2", "mk1")
	require.NoError(t, err)

	// The master-key hash (and hence the salt the session key derives from)
	// is never rotated by password recovery.
	var masterHashAfter string
	require.NoError(t, e.db.QueryRow(
		`SELECT master_key_hash FROM users WHERE id = ?`, user.ID).Scan(&masterHashAfter))
	require.Equal(t, masterHashBefore, masterHashAfter)
}

func TestChangePassword(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	user, err := e.users.Register(ctx, "alice", "pw1", "mk1")
	require.NoError(t, err)

	require.ErrorIs(t,
		e.users.ChangePassword(ctx, user.ID, "wrong-mk", "pw2"),
		common.ErrInvalidCredential)

	require.NoError(t, e.users.ChangePassword(ctx, user.ID, "mk1", "pw2"))

	_, err = e.users.Login(ctx, "alice", "pw2", "mk1")
	require.NoError(t, err)
}

func TestInitSession(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	user, err := e.users.Register(ctx, "alice", "pw1", "mk1")
	require.NoError(t, err)

	require.ErrorIs(t, e.users.InitSession(ctx, 999, "mk1"), common.ErrNotFound)

	require.NoError(t, e.users.InitSession(ctx, user.ID, "mk1"))

	// The cached key equals the key recomputed from the stored hash's salt.
	var masterKeyHash string
	require.NoError(t, e.db.QueryRow(
		`SELECT master_key_hash FROM users WHERE id = ?`, user.ID).Scan(&masterKeyHash))
	salt, err := cryptox.SaltFromHash(masterKeyHash)
	require.NoError(t, err)
	want, err := cryptox.DeriveKey("mk1", salt)
	require.NoError(t, err)

	got, err := e.keyring.Get(user.ID)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestClearSession(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	userID := registerAndUnlock(t, e, "alice", "pw1", "mk1")

	e.users.ClearSession(ctx, userID)
	_, err := e.keyring.Get(userID)
	require.ErrorIs(t, err, common.ErrSessionNotInitialized)

	// Idempotent.
	e.users.ClearSession(ctx, userID)
}

func TestAvatar(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	userID := registerAndUnlock(t, e, "alice", "pw1", "mk1")

	t.Run("no avatar stored", func(t *testing.T) {
		got, err := e.users.Avatar(ctx, userID)
		require.NoError(t, err)
		require.Nil(t, got)
	})

	image := []byte{0x52, 0x49, 0x46, 0x46, 0x01, 0x02}

	t.Run("round trip", func(t *testing.T) {
		require.NoError(t, e.users.UpdateAvatar(ctx, userID, image))

		got, err := e.users.Avatar(ctx, userID)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Equal(t, "data:image/webp;base64,"+base64.StdEncoding.EncodeToString(image), *got)

		// Stored ciphertext is not the raw image.
		var stored string
		require.NoError(t, e.db.QueryRow(
			`SELECT avatar FROM users WHERE id = ?`, userID).Scan(&stored))
		require.NotEqual(t, base64.StdEncoding.EncodeToString(image), stored)
	})

	t.Run("requires session", func(t *testing.T) {
		e.users.ClearSession(ctx, userID)
		_, err := e.users.Avatar(ctx, userID)
		require.ErrorIs(t, err, common.ErrSessionNotInitialized)
		require.NoError(t, e.users.InitSession(ctx, userID, "mk1"))
	})

	t.Run("legacy plaintext fallback", func(t *testing.T) {
		// Rows written before avatar encryption hold raw base64 and no nonce.
		raw := base64.StdEncoding.EncodeToString(image)
		_, err := e.db.Exec(
			`UPDATE users SET avatar = ?, avatar_nonce = NULL WHERE id = ?`, raw, userID)
		require.NoError(t, err)

		got, err := e.users.Avatar(ctx, userID)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Equal(t, "data:image/webp;base64,"+raw, *got)
	})

	t.Run("clear avatar", func(t *testing.T) {
		require.NoError(t, e.users.UpdateAvatar(ctx, userID, nil))
		got, err := e.users.Avatar(ctx, userID)
		require.NoError(t, err)
		require.Nil(t, got)
	})
}

func TestDeleteUser_Cascades(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	userID := registerAndUnlock(t, e, "alice", "pw1", "mk1")

	vault, err := e.vaults.CreateVault(ctx, userID, "Personal", "#ff0000", nil)
	require.NoError(t, err)
	_, err = e.notes.CreateNote(ctx, vault.ID, "Title", "Body", userID)
	require.NoError(t, err)

	require.NoError(t, e.users.Delete(ctx, userID))

	var vaultCount, noteCount int
	require.NoError(t, e.db.QueryRow(`SELECT COUNT(*) FROM vaults`).Scan(&vaultCount))
	require.NoError(t, e.db.QueryRow(`SELECT COUNT(*) FROM notes`).Scan(&noteCount))
	require.Equal(t, 0, vaultCount)
	require.Equal(t, 0, noteCount)

	_, err = e.keyring.Get(userID)
	require.ErrorIs(t, err, common.ErrSessionNotInitialized)
}
