// Package services contains the business logic gating every encrypted
// operation: credential verification, session-key lifecycle, and the
// encrypted CRUD for vaults, notes and collections. All field encryption
// happens here; repositories only move opaque column pairs.
package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/notevault/notevault/internal/common"
	"github.com/notevault/notevault/internal/cryptox"
	"github.com/notevault/notevault/internal/keyring"
	"github.com/notevault/notevault/internal/logging"
	"github.com/notevault/notevault/internal/models"
	"github.com/notevault/notevault/internal/repositories/users"
)

// UserService implements the credential store and the session-key lifecycle:
// - Register/Login: create and verify accounts (two independent PHC hashes)
// - RecoverPassword/ChangePassword: rotate the password hash only
// - InitSession/ClearSession: derive and cache / drop the session key
//
// Lock ordering: database reads always complete before the keyring is
// touched, and key derivation (deliberately slow) runs between the two,
// holding neither.
type UserService struct {
	repo    users.Repository
	keyring *keyring.Keyring
	logger  logging.Logger
}

func NewUserService(db *sql.DB, kr *keyring.Keyring, logger logging.Logger) *UserService {
	return &UserService{
		repo:    users.NewSQLiteRepository(db),
		keyring: kr,
		logger:  logger.With("service", "users"),
	}
}

// Register creates a new account. The password and the master key are hashed
// with independent random salts but identical algorithm and cost parameters.
// The returned view never contains the hashes.
func (s *UserService) Register(ctx context.Context, username, password, masterKey string) (*models.PublicUser, error) {
	taken, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("checking username: %w", err)
	}
	if taken {
		return nil, common.ErrAlreadyExists
	}

	passwordHash, err := cryptox.HashSecret(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	masterKeyHash, err := cryptox.HashSecret(masterKey)
	if err != nil {
		return nil, fmt.Errorf("hashing master key: %w", err)
	}

	user, err := s.repo.Create(ctx, &models.User{
		Username:      username,
		PasswordHash:  passwordHash,
		MasterKeyHash: masterKeyHash,
	})
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user.Public(), nil
}

// Login verifies both secrets before any encrypted data is touched, so a
// correct password cannot be used to probe the master key. Password and
// master-key mismatches are reported identically.
func (s *UserService) Login(ctx context.Context, username, password, masterKey string) (*models.PublicUser, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	ok, err := cryptox.VerifySecret(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		return nil, common.ErrInvalidCredential
	}

	ok, err = cryptox.VerifySecret(masterKey, user.MasterKeyHash)
	if err != nil {
		return nil, fmt.Errorf("verifying master key: %w", err)
	}
	if !ok {
		return nil, common.ErrInvalidCredential
	}

	return user.Public(), nil
}

// RecoverPassword sets a new password hash (fresh salt) after a successful
// master-key check. The master-key hash, the derived key and all encrypted
// fields are left untouched.
func (s *UserService) RecoverPassword(ctx context.Context, username, masterKey, newPassword string) error {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.rotatePassword(ctx, user, masterKey, newPassword)
}

// ChangePassword is RecoverPassword addressed by id for an already
// authenticated session.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, masterKey, newPassword string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	return s.rotatePassword(ctx, user, masterKey, newPassword)
}

func (s *UserService) rotatePassword(ctx context.Context, user *models.User, masterKey, newPassword string) error {
	ok, err := cryptox.VerifySecret(masterKey, user.MasterKeyHash)
	if err != nil {
		return fmt.Errorf("verifying master key: %w", err)
	}
	if !ok {
		return common.ErrInvalidCredential
	}

	hash, err := cryptox.HashSecret(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := s.repo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	s.logger.Info(ctx, "password rotated", "user_id", user.ID)
	return nil
}

// Delete removes the user row; vaults and notes go with it through the
// schema's ON DELETE CASCADE. Any live session key is dropped too.
func (s *UserService) Delete(ctx context.Context, userID int64) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	s.keyring.Remove(userID)
	return nil
}

// InitSession loads the stored master-key hash, extracts its salt, derives
// the session key and caches it. The salt always comes from the hash
// verified at login, never a fresh one, so the derived key can never pair
// with the wrong salt. On any error the cache is left unchanged.
func (s *UserService) InitSession(ctx context.Context, userID int64, masterKey string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	salt, err := cryptox.SaltFromHash(user.MasterKeyHash)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrKeyDerivationFailed, err)
	}

	// Slow (argon2id); runs with no locks held.
	key, err := cryptox.DeriveKey(masterKey, salt)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(key)

	s.keyring.Put(userID, key)
	s.logger.Info(ctx, "session initialized", "user_id", userID)
	return nil
}

// ClearSession drops the cached session key. Idempotent, never fails.
func (s *UserService) ClearSession(ctx context.Context, userID int64) {
	s.keyring.Remove(userID)
	s.logger.Info(ctx, "session cleared", "user_id", userID)
}

// Avatar returns the user's avatar as a data URI, or nil when no avatar is
// stored or the stored blob cannot be decoded. Requires an unlocked session.
func (s *UserService) Avatar(ctx context.Context, userID int64) (*string, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Avatar == nil {
		return nil, nil
	}

	key, err := s.keyring.Get(userID)
	if err != nil {
		return nil, err
	}

	return decodeImageColumn(*user.Avatar, user.AvatarNonce, key), nil
}

// UpdateAvatar encrypts and stores a new avatar, or clears it when image is
// nil. A fresh nonce is drawn even if the image bytes are unchanged.
func (s *UserService) UpdateAvatar(ctx context.Context, userID int64, image []byte) error {
	if image == nil {
		return s.repo.UpdateAvatar(ctx, userID, nil, nil)
	}

	key, err := s.keyring.Get(userID)
	if err != nil {
		return err
	}

	ciphertext, nonce, err := cryptox.EncryptBytes(image, key)
	if err != nil {
		return err
	}
	return s.repo.UpdateAvatar(ctx, userID, &ciphertext, &nonce)
}
