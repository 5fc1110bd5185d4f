package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/youlserf/recipehub/internal/repositories"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// SQLiteDSN builds the driver DSN for a SQLite database file
func SQLiteDSN(cfg repositories.SQLiteConfig) string {
	busyTimeout := cfg.BusyTimeout
	if busyTimeout <= 0 {
		busyTimeout = 5000
	}
	return fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL", cfg.Path, busyTimeout)
}

// OpenSQLite opens the SQLite database described by cfg, creating its
// directory if needed, and applies migrations when AutoMigrate is set.
func OpenSQLite(ctx context.Context, cfg repositories.SQLiteConfig, table string, logger *logrus.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = logrus.New()
	}

	dbPath, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute database path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	cfg.Path = dbPath
	dsn := SQLiteDSN(cfg)

	if cfg.AutoMigrate {
		if err := NewMigrationManager(dsn, table, logger).RunMigrations(); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single writer connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.WithField("db_path", dbPath).Info("Database connection established")
	return db, nil
}
