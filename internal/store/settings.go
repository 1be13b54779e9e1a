package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
)

// GetAPIKeySecret retrieves the secret used to sign API keys, generating and
// storing one on first use. INSERT OR IGNORE followed by a re-SELECT keeps
// concurrent first starts consistent.
func GetAPIKeySecret(ctx context.Context, db *sql.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating api key secret: %w", err)
	}
	candidate := hex.EncodeToString(buf)

	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES ('api_key_secret', ?)`,
		candidate,
	)
	if err != nil {
		return "", fmt.Errorf("storing api_key_secret: %w", err)
	}

	var secret string
	err = db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = 'api_key_secret'`,
	).Scan(&secret)
	if err != nil {
		return "", fmt.Errorf("querying api_key_secret: %w", err)
	}

	return secret, nil
}
