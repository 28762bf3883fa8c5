// Package notes provides SQLite-backed persistence for note rows.
package notes

import (
	"context"

	"github.com/notevault/notevault/internal/models"
)

type Repository interface {
	// Create inserts the row, resolving position as max(sibling)+1 among the
	// vault's notes, and fills row.Position with the assigned value.
	Create(ctx context.Context, row *models.NoteRow) (*models.NoteRow, error)
	GetByVaultID(ctx context.Context, vaultID string) ([]models.NoteRow, error)
	GetByID(ctx context.Context, id string) (*models.NoteRow, error)
	Update(ctx context.Context, row *models.NoteRow) error
	UpdatePosition(ctx context.Context, id string, position int64) error
	Delete(ctx context.Context, id string) error
}
