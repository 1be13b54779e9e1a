package store

import (
	"context"
	"database/sql"
	"fmt"
)

// RevokeKey adds an API key's JTI to the revocation list. Revoking twice is
// not an error.
func RevokeKey(ctx context.Context, db *sql.DB, jti string) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO revoked_keys (jti) VALUES (?)`, jti,
	)
	if err != nil {
		return fmt.Errorf("revoking key: %w", err)
	}
	return nil
}

// IsKeyRevoked checks if an API key's JTI has been revoked.
func IsKeyRevoked(ctx context.Context, db *sql.DB, jti string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM revoked_keys WHERE jti = ?`, jti,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking key revocation: %w", err)
	}
	return count > 0, nil
}
