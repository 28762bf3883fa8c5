package services

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/notevault/notevault/internal/common"
	"github.com/notevault/notevault/internal/keyring"
	"github.com/notevault/notevault/internal/logging"
	"github.com/notevault/notevault/internal/migrations"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// ---- helpers ----

type env struct {
	db          *sql.DB
	keyring     *keyring.Keyring
	users       *UserService
	vaults      *VaultService
	notes       *NoteService
	collections *CollectionService
}

func setupEnv(t *testing.T) *env {
	t.Helper()

	name := hex.EncodeToString(common.GenerateRandByteArray(8))
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)

	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpContext(context.Background(), db, "."))

	kr := keyring.New()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	return &env{
		db:          db,
		keyring:     kr,
		users:       NewUserService(db, kr, logger),
		vaults:      NewVaultService(db, kr, logger),
		notes:       NewNoteService(db, kr, logger),
		collections: NewCollectionService(db, kr, logger),
	}
}

// registerAndUnlock registers a user and initializes its session.
func registerAndUnlock(t *testing.T, e *env, username, password, masterKey string) int64 {
	t.Helper()
	ctx := context.Background()

	user, err := e.users.Register(ctx, username, password, masterKey)
	require.NoError(t, err)
	require.NoError(t, e.users.InitSession(ctx, user.ID, masterKey))
	return user.ID
}
