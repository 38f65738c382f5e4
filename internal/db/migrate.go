package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/PauloHFS/blog/internal/logging"
	"github.com/PauloHFS/blog/migrations"
	"github.com/pressly/goose/v3"
)

// RunMigrations aplica as migrações pendentes do FS embutido.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("falha ao criar provider de migrações: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("falha ao executar migrações: %w", err)
	}

	for _, r := range results {
		logging.Get().Debug("migration applied",
			slog.Int64("version", r.Source.Version),
			slog.Duration("duration", r.Duration),
		)
	}
	return nil
}
