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
	"github.com/notevault/notevault/internal/repositories/notes"
)

// NoteService implements encrypted note CRUD. Title and content are
// encrypted independently, each with its own nonce.
type NoteService struct {
	repo    notes.Repository
	keyring *keyring.Keyring
	logger  logging.Logger
}

func NewNoteService(db *sql.DB, kr *keyring.Keyring, logger logging.Logger) *NoteService {
	return &NoteService{
		repo:    notes.NewSQLiteRepository(db),
		keyring: kr,
		logger:  logger.With("service", "notes"),
	}
}

// GetNotesDecrypted lists a vault's notes ordered by position, decrypting
// every row with the single key resolved at the start of the call. A
// decryption failure on any text field is fatal for the whole call.
func (s *NoteService) GetNotesDecrypted(ctx context.Context, vaultID string, userID int64) ([]models.Note, error) {
	key, err := s.keyring.Get(userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.GetByVaultID(ctx, vaultID)
	if err != nil {
		return nil, err
	}

	result := make([]models.Note, 0, len(rows))
	for i := range rows {
		note, err := s.decryptNote(&rows[i], key)
		if err != nil {
			return nil, err
		}
		result = append(result, *note)
	}
	return result, nil
}

// CreateNote encrypts title and content and inserts the row. Position is
// assigned as max(positions among the vault's notes)+1 by the repository.
func (s *NoteService) CreateNote(ctx context.Context, vaultID, title, content string, userID int64) (*models.Note, error) {
	key, err := s.keyring.Get(userID)
	if err != nil {
		return nil, err
	}

	titleEncrypted, titleNonce, err := cryptox.EncryptField(title, key)
	if err != nil {
		return nil, err
	}
	contentEncrypted, contentNonce, err := cryptox.EncryptField(content, key)
	if err != nil {
		return nil, err
	}

	row := &models.NoteRow{
		ID:               uuid.NewString(),
		VaultID:          vaultID,
		TitleEncrypted:   titleEncrypted,
		TitleNonce:       titleNonce,
		ContentEncrypted: contentEncrypted,
		ContentNonce:     contentNonce,
		CreatedAt:        time.Now().UnixMilli(),
	}

	if _, err := s.repo.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("creating note: %w", err)
	}

	s.logger.Debug(ctx, "note created", "note_id", row.ID, "position", row.Position)

	return &models.Note{
		ID:        row.ID,
		VaultID:   vaultID,
		Title:     title,
		Content:   content,
		CreatedAt: row.CreatedAt,
		Position:  row.Position,
	}, nil
}

// UpdateNote re-encrypts both fields with fresh nonces even if unchanged.
func (s *NoteService) UpdateNote(ctx context.Context, noteID, title, content string, userID int64) error {
	key, err := s.keyring.Get(userID)
	if err != nil {
		return err
	}

	titleEncrypted, titleNonce, err := cryptox.EncryptField(title, key)
	if err != nil {
		return err
	}
	contentEncrypted, contentNonce, err := cryptox.EncryptField(content, key)
	if err != nil {
		return err
	}

	return s.repo.Update(ctx, &models.NoteRow{
		ID:               noteID,
		TitleEncrypted:   titleEncrypted,
		TitleNonce:       titleNonce,
		ContentEncrypted: contentEncrypted,
		ContentNonce:     contentNonce,
	})
}

func (s *NoteService) DeleteNote(ctx context.Context, noteID string) error {
	return s.repo.Delete(ctx, noteID)
}

// UpdateNotePosition overwrites the position directly, without renumbering.
func (s *NoteService) UpdateNotePosition(ctx context.Context, noteID string, position int64) error {
	return s.repo.UpdatePosition(ctx, noteID, position)
}

// GetNoteWithContent fetches and decrypts a single note.
func (s *NoteService) GetNoteWithContent(ctx context.Context, noteID string, userID int64) (*models.Note, error) {
	row, err := s.repo.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}

	key, err := s.keyring.Get(userID)
	if err != nil {
		return nil, err
	}

	return s.decryptNote(row, key)
}

func (s *NoteService) decryptNote(row *models.NoteRow, key []byte) (*models.Note, error) {
	title, err := cryptox.DecryptField(row.TitleEncrypted, row.TitleNonce, key)
	if err != nil {
		return nil, fmt.Errorf("decrypting note %s title: %w", row.ID, err)
	}
	content, err := cryptox.DecryptField(row.ContentEncrypted, row.ContentNonce, key)
	if err != nil {
		return nil, fmt.Errorf("decrypting note %s content: %w", row.ID, err)
	}

	return &models.Note{
		ID:        row.ID,
		VaultID:   row.VaultID,
		Title:     title,
		Content:   content,
		CreatedAt: row.CreatedAt,
		Position:  row.Position,
	}, nil
}
