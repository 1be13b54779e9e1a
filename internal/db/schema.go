package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. The same file serves the reference
// inventory server (bottles, mixers, fresh, favorites, settings,
// revoked_keys) and the client's durable local storage (local_storage), so a
// single SQLite file can back both during local development.
const schema = `
CREATE TABLE IF NOT EXISTS bottles (
    id            INTEGER PRIMARY KEY,
    name          TEXT NOT NULL,
    opened        INTEGER NOT NULL DEFAULT 0,
    open_date     TEXT,
    purchase_date TEXT,
    price         TEXT,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CHECK (opened = 1 OR open_date IS NULL)
);

CREATE TABLE IF NOT EXISTS mixers (
    id            INTEGER PRIMARY KEY,
    name          TEXT NOT NULL,
    opened        INTEGER NOT NULL DEFAULT 0,
    open_date     TEXT,
    purchase_date TEXT,
    price         TEXT,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CHECK (opened = 1 OR open_date IS NULL)
);

CREATE TABLE IF NOT EXISTS fresh (
    id            INTEGER PRIMARY KEY,
    name          TEXT NOT NULL,
    prepared_date TEXT,
    purchase_date TEXT,
    price         TEXT,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS favorites (
    id           INTEGER PRIMARY KEY,
    name         TEXT NOT NULL,
    description  TEXT NOT NULL DEFAULT '',
    ingredients  TEXT NOT NULL DEFAULT '[]',
    instructions TEXT NOT NULL DEFAULT '[]',
    created_at   INTEGER NOT NULL,
    updated_at   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_keys (
    jti        TEXT PRIMARY KEY,
    revoked_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS local_storage (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
