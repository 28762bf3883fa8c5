package notes

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

func (r *SQLiteRepository) Create(ctx context.Context, row *models.NoteRow) (*models.NoteRow, error) {
	query := `INSERT INTO notes (id, vault_id, title_encrypted, title_nonce, content_encrypted, content_nonce, created_at, position)
	          VALUES (?, ?, ?, ?, ?, ?, ?,
	                  (SELECT COALESCE(MAX(position), -1) + 1 FROM notes WHERE vault_id = ?))
	          RETURNING position`

	err := r.db.QueryRowContext(ctx, query,
		row.ID, row.VaultID, row.TitleEncrypted, row.TitleNonce,
		row.ContentEncrypted, row.ContentNonce, row.CreatedAt, row.VaultID).Scan(&row.Position)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return row, nil
}

func (r *SQLiteRepository) GetByVaultID(ctx context.Context, vaultID string) ([]models.NoteRow, error) {
	query := `SELECT id, vault_id, title_encrypted, title_nonce, content_encrypted, content_nonce, created_at, position
	          FROM notes WHERE vault_id = ?
	          ORDER BY position ASC, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, vaultID)
	if err != nil {
		return nil, fmt.Errorf("failed to select notes: %w", err)
	}
	defer rows.Close()

	var result []models.NoteRow
	for rows.Next() {
		var item models.NoteRow
		if err := rows.Scan(&item.ID, &item.VaultID, &item.TitleEncrypted, &item.TitleNonce,
			&item.ContentEncrypted, &item.ContentNonce, &item.CreatedAt, &item.Position); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.NoteRow, error) {
	query := `SELECT id, vault_id, title_encrypted, title_nonce, content_encrypted, content_nonce, created_at, position
	          FROM notes WHERE id = ?`

	row := &models.NoteRow{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&row.ID, &row.VaultID,
		&row.TitleEncrypted, &row.TitleNonce, &row.ContentEncrypted,
		&row.ContentNonce, &row.CreatedAt, &row.Position)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return row, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, row *models.NoteRow) error {
	query := `UPDATE notes
	          SET title_encrypted = ?, title_nonce = ?, content_encrypted = ?, content_nonce = ?
	          WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query,
		row.TitleEncrypted, row.TitleNonce, row.ContentEncrypted, row.ContentNonce, row.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) UpdatePosition(ctx context.Context, id string, position int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notes SET position = ? WHERE id = ?`, position, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
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
