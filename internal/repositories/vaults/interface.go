// Package vaults provides SQLite-backed persistence for vault rows. All
// encryption happens in the services layer; this package moves opaque
// ciphertext/nonce column pairs.
package vaults

import (
	"context"

	"github.com/notevault/notevault/internal/models"
)

type Repository interface {
	// Create inserts the row, resolving position as max(sibling)+1 in the
	// same statement, and fills row.Position with the assigned value.
	Create(ctx context.Context, row *models.VaultRow) (*models.VaultRow, error)
	GetByUserID(ctx context.Context, userID int64) ([]models.VaultRow, error)
	GetByID(ctx context.Context, id string) (*models.VaultRow, error)
	Update(ctx context.Context, row *models.VaultRow) error
	UpdatePosition(ctx context.Context, id string, position int64) error
	Delete(ctx context.Context, id string) error
}
