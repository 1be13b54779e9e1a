package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/liquorlocker/internal/model"
)

const mixerColumns = `id, name, opened, open_date, purchase_date, price`

// CreateMixer creates a new mixer.
func CreateMixer(ctx context.Context, db *sql.DB, in model.MixerInput) (*model.Mixer, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO mixers (name, opened, open_date, purchase_date, price) VALUES (?, ?, ?, ?, ?)`,
		in.Name, in.Opened, in.OpenDate, in.PurchaseDate, in.Price,
	)
	if err != nil {
		return nil, fmt.Errorf("creating mixer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting mixer id: %w", err)
	}

	return GetMixer(ctx, db, id)
}

// GetMixer returns a mixer by ID, or nil if it does not exist.
func GetMixer(ctx context.Context, db *sql.DB, id int64) (*model.Mixer, error) {
	m, err := scanMixer(db.QueryRowContext(ctx,
		`SELECT `+mixerColumns+` FROM mixers WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting mixer: %w", err)
	}
	return m, nil
}

// ListMixers returns all mixers, newest first.
func ListMixers(ctx context.Context, db *sql.DB) ([]model.Mixer, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+mixerColumns+` FROM mixers ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing mixers: %w", err)
	}
	defer rows.Close()

	var mixers []model.Mixer
	for rows.Next() {
		m, err := scanMixer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning mixer: %w", err)
		}
		mixers = append(mixers, *m)
	}
	return mixers, rows.Err()
}

// UpdateMixer replaces a mixer's fields. It returns nil if the mixer
// does not exist.
func UpdateMixer(ctx context.Context, db *sql.DB, id int64, in model.MixerInput) (*model.Mixer, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE mixers SET name = ?, opened = ?, open_date = ?, purchase_date = ?, price = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		in.Name, in.Opened, in.OpenDate, in.PurchaseDate, in.Price, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating mixer: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, nil
	}
	return GetMixer(ctx, db, id)
}

// DeleteMixer removes a mixer. It reports whether the mixer existed.
func DeleteMixer(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	return deleteByID(ctx, db, "mixers", id)
}

func scanMixer(row rowScanner) (*model.Mixer, error) {
	m := &model.Mixer{}
	if err := row.Scan(&m.ID, &m.Name, &m.Opened, &m.OpenDate, &m.PurchaseDate, &m.Price); err != nil {
		return nil, err
	}
	return m, nil
}
