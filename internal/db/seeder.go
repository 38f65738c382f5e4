package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/PauloHFS/blog/internal/logging"
	"golang.org/x/crypto/bcrypt"
)

const seedPassword = "password123"

var seedUsers = []CreateUserParams{
	{Username: "alice", Email: "alice@example.com"},
	{Username: "bob", Email: "bob@example.com"},
}

// Seed cria os usuários de demonstração e um post de boas-vindas.
// Pode ser executado mais de uma vez.
func Seed(ctx context.Context, dbConn *sql.DB) error {
	queries := New(dbConn)

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	ids := make(map[string]int64, len(seedUsers))
	for _, u := range seedUsers {
		existing, err := queries.GetUserByUsername(ctx, u.Username)
		if err == nil {
			ids[u.Username] = existing.ID
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to look up %s: %w", u.Username, err)
		}

		u.PasswordHash = string(hash)
		id, err := queries.CreateUser(ctx, u)
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.Username, err)
		}
		ids[u.Username] = id
	}

	count, err := queries.CountPosts(ctx)
	if err != nil {
		return fmt.Errorf("failed to count posts: %w", err)
	}
	if count == 0 {
		if _, err := queries.CreatePost(ctx, CreatePostParams{
			UserID:     ids["alice"],
			Title:      "Hello, blog",
			Content:    "First post. Log in as alice or bob to write your own.",
			DatePosted: time.Now().UTC(),
		}); err != nil {
			return fmt.Errorf("failed to seed post: %w", err)
		}
	}

	logging.Get().Info("database seeded successfully",
		slog.String("users", "alice, bob"),
		slog.String("default_password", seedPassword),
	)
	return nil
}
