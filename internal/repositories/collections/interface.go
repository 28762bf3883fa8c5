// Package collections provides SQLite-backed persistence for collection
// rows. Vault membership is stored as a JSON array column; read-modify-write
// of that column belongs to the services layer, which runs it inside a
// transaction.
package collections

import (
	"context"

	"github.com/notevault/notevault/internal/models"
)

type Repository interface {
	// Create inserts the row, resolving position as max(sibling)+1 among the
	// user's collections, and fills row.Position with the assigned value.
	Create(ctx context.Context, row *models.CollectionRow) (*models.CollectionRow, error)
	GetByUserID(ctx context.Context, userID int64) ([]models.CollectionRow, error)
	GetByID(ctx context.Context, id string) (*models.CollectionRow, error)
	Update(ctx context.Context, row *models.CollectionRow) error
	UpdateVaultIDs(ctx context.Context, id string, vaultIDs string) error
	UpdatePosition(ctx context.Context, id string, position int64) error
	Delete(ctx context.Context, id string) error
}
