package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fieldserve/appointments/internal/config"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle behind the appointment store.
type DB struct {
	*sql.DB
	path string
}

// NewDB opens the appointment database file and verifies the connection.
func NewDB(ctx context.Context, cfg config.StoreConfig) (*DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("store path is required")
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", cfg.Path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping store: %w", err)
	}

	return &DB{DB: db, path: cfg.Path}, nil
}

// Ping verifies the store is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.PingContext(ctx)
}
