package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/notevault/notevault/internal/cryptox"
	"github.com/notevault/notevault/internal/dbx"
	"github.com/notevault/notevault/internal/keyring"
	"github.com/notevault/notevault/internal/logging"
	"github.com/notevault/notevault/internal/models"
	"github.com/notevault/notevault/internal/repositories/collections"
)

// CollectionService implements encrypted collection CRUD. Only the name is
// encrypted; vault membership is a plaintext JSON list of foreign ids,
// mutated with append-if-absent / remove-all-occurrences semantics inside a
// transaction.
type CollectionService struct {
	db      *sql.DB
	repo    collections.Repository
	keyring *keyring.Keyring
	logger  logging.Logger
}

func NewCollectionService(db *sql.DB, kr *keyring.Keyring, logger logging.Logger) *CollectionService {
	return &CollectionService{
		db:      db,
		repo:    collections.NewSQLiteRepository(db),
		keyring: kr,
		logger:  logger.With("service", "collections"),
	}
}

// GetCollections lists the user's collections ordered by position,
// decrypting every name with the single key resolved at the start.
func (s *CollectionService) GetCollections(ctx context.Context, userID int64) ([]models.Collection, error) {
	key, err := s.keyring.Get(userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]models.Collection, 0, len(rows))
	for i := range rows {
		collection, err := decryptCollection(&rows[i], key)
		if err != nil {
			return nil, err
		}
		result = append(result, *collection)
	}
	return result, nil
}

// CreateCollection encrypts the name and inserts an empty collection.
func (s *CollectionService) CreateCollection(ctx context.Context, userID int64, name string) (*models.Collection, error) {
	key, err := s.keyring.Get(userID)
	if err != nil {
		return nil, err
	}

	nameEncrypted, nameNonce, err := cryptox.EncryptField(name, key)
	if err != nil {
		return nil, err
	}

	row := &models.CollectionRow{
		ID:            uuid.NewString(),
		UserID:        userID,
		NameEncrypted: nameEncrypted,
		NameNonce:     nameNonce,
		VaultIDs:      "[]",
		CreatedAt:     time.Now().UnixMilli(),
	}

	if _, err := s.repo.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("creating collection: %w", err)
	}

	s.logger.Debug(ctx, "collection created", "collection_id", row.ID, "position", row.Position)

	return &models.Collection{
		ID:        row.ID,
		UserID:    userID,
		Name:      name,
		VaultIDs:  []string{},
		CreatedAt: row.CreatedAt,
		Position:  row.Position,
	}, nil
}

// UpdateCollection overwrites name (re-encrypted with a fresh nonce),
// membership and position in one statement.
func (s *CollectionService) UpdateCollection(ctx context.Context, collection *models.Collection) error {
	key, err := s.keyring.Get(collection.UserID)
	if err != nil {
		return err
	}

	nameEncrypted, nameNonce, err := cryptox.EncryptField(collection.Name, key)
	if err != nil {
		return err
	}

	vaultIDs, err := json.Marshal(collection.VaultIDs)
	if err != nil {
		return fmt.Errorf("encoding vault ids: %w", err)
	}

	return s.repo.Update(ctx, &models.CollectionRow{
		ID:            collection.ID,
		NameEncrypted: nameEncrypted,
		NameNonce:     nameNonce,
		VaultIDs:      string(vaultIDs),
		Position:      collection.Position,
	})
}

func (s *CollectionService) DeleteCollection(ctx context.Context, collectionID string) error {
	return s.repo.Delete(ctx, collectionID)
}

// UpdateCollectionPosition overwrites the position directly.
func (s *CollectionService) UpdateCollectionPosition(ctx context.Context, collectionID string, position int64) error {
	return s.repo.UpdatePosition(ctx, collectionID, position)
}

// AddVaultToCollection appends vaultID to the membership list unless it is
// already present (no-op then). The read-modify-write runs in a transaction.
func (s *CollectionService) AddVaultToCollection(ctx context.Context, collectionID, vaultID string) error {
	return s.mutateVaultIDs(ctx, collectionID, func(ids []string) []string {
		if slices.Contains(ids, vaultID) {
			return ids
		}
		return append(ids, vaultID)
	})
}

// RemoveVaultFromCollection removes all occurrences of vaultID.
func (s *CollectionService) RemoveVaultFromCollection(ctx context.Context, collectionID, vaultID string) error {
	return s.mutateVaultIDs(ctx, collectionID, func(ids []string) []string {
		return slices.DeleteFunc(ids, func(id string) bool { return id == vaultID })
	})
}

func (s *CollectionService) mutateVaultIDs(ctx context.Context, collectionID string, fn func([]string) []string) error {
	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := collections.NewSQLiteRepository(tx)

		row, err := repo.GetByID(ctx, collectionID)
		if err != nil {
			return err
		}

		ids := parseVaultIDs(row.VaultIDs)
		ids = fn(ids)

		encoded, err := json.Marshal(ids)
		if err != nil {
			return fmt.Errorf("encoding vault ids: %w", err)
		}
		return repo.UpdateVaultIDs(ctx, collectionID, string(encoded))
	})
}

func decryptCollection(row *models.CollectionRow, key []byte) (*models.Collection, error) {
	name, err := cryptox.DecryptField(row.NameEncrypted, row.NameNonce, key)
	if err != nil {
		return nil, fmt.Errorf("decrypting collection %s name: %w", row.ID, err)
	}

	return &models.Collection{
		ID:        row.ID,
		UserID:    row.UserID,
		Name:      name,
		VaultIDs:  parseVaultIDs(row.VaultIDs),
		CreatedAt: row.CreatedAt,
		Position:  row.Position,
	}, nil
}

// parseVaultIDs tolerates malformed JSON by returning an empty list, the
// same way the membership column is treated when first written.
func parseVaultIDs(encoded string) []string {
	var ids []string
	if err := json.Unmarshal([]byte(encoded), &ids); err != nil || ids == nil {
		return []string{}
	}
	return ids
}
