package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/PauloHFS/blog/internal/config"
	"github.com/PauloHFS/blog/internal/db"
	"github.com/PauloHFS/blog/internal/logging"
)

// openDB abre o SQLite com os pragmas de performance e resiliência.
func openDB(cfg *config.Config) (*sql.DB, error) {
	sqliteCfg := config.GetSQLiteConfig()

	dbConn, err := sql.Open("sqlite3", sqliteCfg.DSN(cfg.DatabaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := dbConn.Ping(); err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return dbConn, nil
}

func initDB() (*sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return openDB(cfg)
}

func RunSeed() {
	dbConn, err := initDB()
	if err != nil {
		panic(err)
	}
	defer dbConn.Close()

	logging.Init()
	logger := logging.Get()

	if err := db.RunMigrations(context.Background(), dbConn); err != nil {
		logger.Error("failed to run migrations during seed", "error", err)
		return
	}
	if err := db.Seed(context.Background(), dbConn); err != nil {
		logger.Error("failed to seed database", "error", err)
		return
	}
	logger.Info("database seeded successfully")
}

func RunMigrate() {
	dbConn, err := initDB()
	if err != nil {
		panic(err)
	}
	defer dbConn.Close()

	logging.Init()
	logger := logging.Get()

	if err := db.RunMigrations(context.Background(), dbConn); err != nil {
		logger.Error("failed to run migrations", "error", err)
		return
	}
	logger.Info("migrations executed successfully")
}
