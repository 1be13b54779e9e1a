package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: lists are ordered newest first.
	`CREATE INDEX IF NOT EXISTS idx_bottles_created ON bottles(created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_mixers_created ON mixers(created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_fresh_created ON fresh(created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_favorites_created ON favorites(created_at DESC)`,
}

// Migrate creates the schema and runs the migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
