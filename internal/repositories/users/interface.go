// Package users provides SQLite-backed persistence for user rows:
// credential hashes and the optional encrypted avatar.
package users

import (
	"context"

	"github.com/notevault/notevault/internal/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	UpdateAvatar(ctx context.Context, id int64, avatar, nonce *string) error
	Delete(ctx context.Context, id int64) error
}
