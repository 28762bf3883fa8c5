package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/notevault/notevault/internal/cryptox"
	"github.com/notevault/notevault/internal/keyring"
	"github.com/notevault/notevault/internal/logging"
	"github.com/notevault/notevault/internal/models"
	"github.com/notevault/notevault/internal/repositories/vaults"
)

// VaultService implements encrypted vault CRUD. The session key is fetched
// exactly once per call, not once per row.
type VaultService struct {
	repo    vaults.Repository
	keyring *keyring.Keyring
	logger  logging.Logger
}

func NewVaultService(db *sql.DB, kr *keyring.Keyring, logger logging.Logger) *VaultService {
	return &VaultService{
		repo:    vaults.NewSQLiteRepository(db),
		keyring: kr,
		logger:  logger.With("service", "vaults"),
	}
}

// GetVaults lists the user's vaults ordered by position, decrypting every
// row with the single key resolved at the start of the call.
func (s *VaultService) GetVaults(ctx context.Context, userID int64) ([]models.Vault, error) {
	key, err := s.keyring.Get(userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]models.Vault, 0, len(rows))
	for i := range rows {
		vault, err := s.decryptVault(&rows[i], key)
		if err != nil {
			return nil, err
		}
		result = append(result, *vault)
	}
	return result, nil
}

// CreateVault encrypts the name (and image, when given) and inserts the row.
// Position is assigned as max(sibling positions)+1 by the repository.
func (s *VaultService) CreateVault(ctx context.Context, userID int64, name, color string, image []byte) (*models.Vault, error) {
	key, err := s.keyring.Get(userID)
	if err != nil {
		return nil, err
	}

	nameEncrypted, nameNonce, err := cryptox.EncryptField(name, key)
	if err != nil {
		return nil, err
	}

	row := &models.VaultRow{
		ID:            uuid.NewString(),
		UserID:        userID,
		NameEncrypted: nameEncrypted,
		NameNonce:     nameNonce,
		Color:         color,
		CreatedAt:     time.Now().UnixMilli(),
	}

	if image != nil {
		ciphertext, nonce, err := cryptox.EncryptBytes(image, key)
		if err != nil {
			return nil, err
		}
		row.Image = &ciphertext
		row.ImageNonce = &nonce
	}

	if _, err := s.repo.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("creating vault: %w", err)
	}

	s.logger.Debug(ctx, "vault created", "vault_id", row.ID, "position", row.Position)

	return &models.Vault{
		ID:        row.ID,
		UserID:    userID,
		Name:      name,
		Color:     color,
		CreatedAt: row.CreatedAt,
		Position:  row.Position,
	}, nil
}

// UpdateVault re-encrypts the name (and image, when given) with fresh nonces
// even if the content is unchanged, and overwrites the stored columns.
func (s *VaultService) UpdateVault(ctx context.Context, vault *models.Vault, image []byte) error {
	key, err := s.keyring.Get(vault.UserID)
	if err != nil {
		return err
	}

	nameEncrypted, nameNonce, err := cryptox.EncryptField(vault.Name, key)
	if err != nil {
		return err
	}

	row := &models.VaultRow{
		ID:            vault.ID,
		UserID:        vault.UserID,
		NameEncrypted: nameEncrypted,
		NameNonce:     nameNonce,
		Color:         vault.Color,
	}

	if image != nil {
		ciphertext, nonce, err := cryptox.EncryptBytes(image, key)
		if err != nil {
			return err
		}
		row.Image = &ciphertext
		row.ImageNonce = &nonce
	}

	return s.repo.Update(ctx, row)
}

// DeleteVault removes the vault; its notes go with it via cascade.
func (s *VaultService) DeleteVault(ctx context.Context, vaultID string) error {
	return s.repo.Delete(ctx, vaultID)
}

// UpdateVaultPosition overwrites the position directly. Siblings are not
// renumbered; gaps and ties are the caller's responsibility.
func (s *VaultService) UpdateVaultPosition(ctx context.Context, vaultID string, position int64) error {
	return s.repo.UpdatePosition(ctx, vaultID, position)
}

// GetVault fetches a single vault, resolving the owning user from the row
// before looking up the session key.
func (s *VaultService) GetVault(ctx context.Context, vaultID string) (*models.Vault, error) {
	row, err := s.repo.GetByID(ctx, vaultID)
	if err != nil {
		return nil, err
	}

	key, err := s.keyring.Get(row.UserID)
	if err != nil {
		return nil, err
	}

	return s.decryptVault(row, key)
}

func (s *VaultService) decryptVault(row *models.VaultRow, key []byte) (*models.Vault, error) {
	name, err := cryptox.DecryptField(row.NameEncrypted, row.NameNonce, key)
	if err != nil {
		return nil, fmt.Errorf("decrypting vault %s name: %w", row.ID, err)
	}

	var image *string
	if row.Image != nil {
		image = decodeImageColumn(*row.Image, row.ImageNonce, key)
	}

	return &models.Vault{
		ID:        row.ID,
		UserID:    row.UserID,
		Name:      name,
		Color:     row.Color,
		Image:     image,
		CreatedAt: row.CreatedAt,
		Position:  row.Position,
	}, nil
}
