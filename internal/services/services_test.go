package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/PauloHFS/blog/internal/db"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupQueries(t *testing.T) *db.Queries {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "services_test.db")
	dbConn, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { dbConn.Close() })

	require.NoError(t, db.RunMigrations(context.Background(), dbConn))
	return db.New(dbConn)
}

func mustUser(t *testing.T, q *db.Queries, username string) *db.User {
	t.Helper()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	id, err := q.CreateUser(ctx, db.CreateUserParams{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
	})
	require.NoError(t, err)

	u, err := q.GetUserByID(ctx, id)
	require.NoError(t, err)
	return &u
}
