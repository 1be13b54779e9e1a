// Package store holds the SQL queries behind the reference inventory server.
package store

import (
	"context"
	"database/sql"
	"fmt"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// deleteByID removes a row by primary key and reports whether it existed.
// table is always a package constant, never user input.
func deleteByID(ctx context.Context, db *sql.DB, table string, id int64) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting from %s: %w", table, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting from %s: %w", table, err)
	}
	return n > 0, nil
}
