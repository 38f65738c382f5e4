package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (*sql.DB, *Queries) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "blog_test.db")
	dbConn, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { dbConn.Close() })

	require.NoError(t, RunMigrations(context.Background(), dbConn))
	return dbConn, New(dbConn)
}

func mustCreateUser(t *testing.T, q *Queries, username string) int64 {
	t.Helper()
	id, err := q.CreateUser(context.Background(), CreateUserParams{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return id
}

func TestRunMigrations_Idempotent(t *testing.T) {
	dbConn, _ := setupTestDB(t)
	require.NoError(t, RunMigrations(context.Background(), dbConn))

	var tables int
	err := dbConn.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'posts', 'sessions')`).Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 3, tables)
}

func TestUsers(t *testing.T) {
	_, q := setupTestDB(t)
	ctx := context.Background()

	id := mustCreateUser(t, q, "alice")

	byID, err := q.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
	assert.False(t, byID.CreatedAt.IsZero())

	byEmail, err := q.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, byEmail.ID)

	_, err = q.CreateUser(ctx, CreateUserParams{Username: "alice", Email: "other@example.com", PasswordHash: "x"})
	assert.Error(t, err, "username must be unique")

	_, err = q.GetUserByUsername(ctx, "nobody")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestListPosts_NewestFirst(t *testing.T) {
	_, q := setupTestDB(t)
	ctx := context.Background()
	author := mustCreateUser(t, q, "alice")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	offsets := []time.Duration{2 * time.Hour, 0, 5 * time.Hour, time.Hour}
	for i, off := range offsets {
		_, err := q.CreatePost(ctx, CreatePostParams{
			UserID:     author,
			Title:      "post",
			Content:    "content",
			DatePosted: base.Add(off),
		})
		require.NoError(t, err, "post %d", i)
	}

	rows, err := q.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, rows, len(offsets))
	for i := 1; i < len(rows); i++ {
		assert.False(t, rows[i].DatePosted.After(rows[i-1].DatePosted), "posts out of order at %d", i)
	}
	assert.Equal(t, "alice", rows[0].Author)
}

func TestListPosts_TieBreakByID(t *testing.T) {
	_, q := setupTestDB(t)
	ctx := context.Background()
	author := mustCreateUser(t, q, "alice")

	same := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	first, err := q.CreatePost(ctx, CreatePostParams{UserID: author, Title: "a", Content: "a", DatePosted: same})
	require.NoError(t, err)
	second, err := q.CreatePost(ctx, CreatePostParams{UserID: author, Title: "b", Content: "b", DatePosted: same})
	require.NoError(t, err)

	rows, err := q.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, second, rows[0].ID)
	assert.Equal(t, first, rows[1].ID)
}

func TestUpdatePost_KeepsDatePosted(t *testing.T) {
	_, q := setupTestDB(t)
	ctx := context.Background()
	author := mustCreateUser(t, q, "alice")

	posted := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	id, err := q.CreatePost(ctx, CreatePostParams{UserID: author, Title: "Hi", Content: "World", DatePosted: posted})
	require.NoError(t, err)

	n, err := q.UpdatePost(ctx, UpdatePostParams{Title: "Hi2", Content: "World", UserID: author, ID: id})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	entry, err := q.GetPostEntry(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Hi2", entry.Title)
	assert.Equal(t, "alice", entry.Author)
	assert.True(t, entry.DatePosted.Equal(posted), "date_posted changed: %s", entry.DatePosted)
}

func TestDeletePost(t *testing.T) {
	_, q := setupTestDB(t)
	ctx := context.Background()
	author := mustCreateUser(t, q, "alice")

	id, err := q.CreatePost(ctx, CreatePostParams{UserID: author, Title: "x", Content: "y", DatePosted: time.Now().UTC()})
	require.NoError(t, err)

	n, err := q.DeletePost(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = q.GetPost(ctx, id)
	assert.True(t, errors.Is(err, sql.ErrNoRows))

	n, err = q.DeletePost(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestSeed(t *testing.T) {
	dbConn, q := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, dbConn))
	require.NoError(t, Seed(ctx, dbConn))

	_, err := q.GetUserByUsername(ctx, "bob")
	require.NoError(t, err)

	count, err := q.CountPosts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
