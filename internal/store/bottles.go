package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/liquorlocker/internal/model"
)

const bottleColumns = `id, name, opened, open_date, purchase_date, price`

// CreateBottle creates a new bottle.
func CreateBottle(ctx context.Context, db *sql.DB, in model.BottleInput) (*model.Bottle, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO bottles (name, opened, open_date, purchase_date, price) VALUES (?, ?, ?, ?, ?)`,
		in.Name, in.Opened, in.OpenDate, in.PurchaseDate, in.Price,
	)
	if err != nil {
		return nil, fmt.Errorf("creating bottle: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting bottle id: %w", err)
	}

	return GetBottle(ctx, db, id)
}

// GetBottle returns a bottle by ID, or nil if it does not exist.
func GetBottle(ctx context.Context, db *sql.DB, id int64) (*model.Bottle, error) {
	b, err := scanBottle(db.QueryRowContext(ctx,
		`SELECT `+bottleColumns+` FROM bottles WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting bottle: %w", err)
	}
	return b, nil
}

// ListBottles returns all bottles, newest first.
func ListBottles(ctx context.Context, db *sql.DB) ([]model.Bottle, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+bottleColumns+` FROM bottles ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing bottles: %w", err)
	}
	defer rows.Close()

	var bottles []model.Bottle
	for rows.Next() {
		b, err := scanBottle(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning bottle: %w", err)
		}
		bottles = append(bottles, *b)
	}
	return bottles, rows.Err()
}

// UpdateBottle replaces a bottle's fields. It returns nil if the bottle
// does not exist.
func UpdateBottle(ctx context.Context, db *sql.DB, id int64, in model.BottleInput) (*model.Bottle, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE bottles SET name = ?, opened = ?, open_date = ?, purchase_date = ?, price = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		in.Name, in.Opened, in.OpenDate, in.PurchaseDate, in.Price, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating bottle: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, nil
	}
	return GetBottle(ctx, db, id)
}

// DeleteBottle removes a bottle. It reports whether the bottle existed.
func DeleteBottle(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	return deleteByID(ctx, db, "bottles", id)
}

func scanBottle(row rowScanner) (*model.Bottle, error) {
	b := &model.Bottle{}
	if err := row.Scan(&b.ID, &b.Name, &b.Opened, &b.OpenDate, &b.PurchaseDate, &b.Price); err != nil {
		return nil, err
	}
	return b, nil
}
