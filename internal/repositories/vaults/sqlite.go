package vaults

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/notevault/notevault/internal/common"
	"github.com/notevault/notevault/internal/dbx"
	"github.com/notevault/notevault/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, row *models.VaultRow) (*models.VaultRow, error) {
	// Position is assigned in the INSERT itself so it cannot race with a
	// concurrent sibling insert on the same connection.
	query := `INSERT INTO vaults (id, user_id, name_encrypted, name_nonce, color, image, image_nonce, created_at, position)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?,
	                  (SELECT COALESCE(MAX(position), -1) + 1 FROM vaults WHERE user_id = ?))
	          RETURNING position`

	err := r.db.QueryRowContext(ctx, query,
		row.ID, row.UserID, row.NameEncrypted, row.NameNonce, row.Color,
		row.Image, row.ImageNonce, row.CreatedAt, row.UserID).Scan(&row.Position)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return row, nil
}

func (r *SQLiteRepository) GetByUserID(ctx context.Context, userID int64) ([]models.VaultRow, error) {
	query := `SELECT id, user_id, name_encrypted, name_nonce, color, image, image_nonce, created_at, position
	          FROM vaults WHERE user_id = ?
	          ORDER BY position ASC, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select vaults: %w", err)
	}
	defer rows.Close()

	var result []models.VaultRow
	for rows.Next() {
		var item models.VaultRow
		if err := rows.Scan(&item.ID, &item.UserID, &item.NameEncrypted, &item.NameNonce,
			&item.Color, &item.Image, &item.ImageNonce, &item.CreatedAt, &item.Position); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.VaultRow, error) {
	query := `SELECT id, user_id, name_encrypted, name_nonce, color, image, image_nonce, created_at, position
	          FROM vaults WHERE id = ?`

	row := &models.VaultRow{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&row.ID, &row.UserID,
		&row.NameEncrypted, &row.NameNonce, &row.Color, &row.Image,
		&row.ImageNonce, &row.CreatedAt, &row.Position)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return row, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, row *models.VaultRow) error {
	query := `UPDATE vaults
	          SET name_encrypted = ?, name_nonce = ?, color = ?, image = ?, image_nonce = ?
	          WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query,
		row.NameEncrypted, row.NameNonce, row.Color, row.Image, row.ImageNonce, row.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) UpdatePosition(ctx context.Context, id string, position int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE vaults SET position = ? WHERE id = ?`, position, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM vaults WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
