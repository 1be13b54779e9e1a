package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/liquorlocker/internal/model"
)

const freshColumns = `id, name, prepared_date, purchase_date, price`

// CreateFresh creates a new fresh item.
func CreateFresh(ctx context.Context, db *sql.DB, in model.FreshInput) (*model.Fresh, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO fresh (name, prepared_date, purchase_date, price) VALUES (?, ?, ?, ?)`,
		in.Name, in.PreparedDate, in.PurchaseDate, in.Price,
	)
	if err != nil {
		return nil, fmt.Errorf("creating fresh item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting fresh item id: %w", err)
	}

	return GetFresh(ctx, db, id)
}

// GetFresh returns a fresh item by ID, or nil if it does not exist.
func GetFresh(ctx context.Context, db *sql.DB, id int64) (*model.Fresh, error) {
	f, err := scanFresh(db.QueryRowContext(ctx,
		`SELECT `+freshColumns+` FROM fresh WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting fresh item: %w", err)
	}
	return f, nil
}

// ListFresh returns all fresh items, newest first.
func ListFresh(ctx context.Context, db *sql.DB) ([]model.Fresh, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+freshColumns+` FROM fresh ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing fresh items: %w", err)
	}
	defer rows.Close()

	var items []model.Fresh
	for rows.Next() {
		f, err := scanFresh(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning fresh item: %w", err)
		}
		items = append(items, *f)
	}
	return items, rows.Err()
}

// UpdateFresh replaces a fresh item's fields. It returns nil if the item
// does not exist.
func UpdateFresh(ctx context.Context, db *sql.DB, id int64, in model.FreshInput) (*model.Fresh, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE fresh SET name = ?, prepared_date = ?, purchase_date = ?, price = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		in.Name, in.PreparedDate, in.PurchaseDate, in.Price, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating fresh item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, nil
	}
	return GetFresh(ctx, db, id)
}

// DeleteFresh removes a fresh item. It reports whether the item existed.
func DeleteFresh(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	return deleteByID(ctx, db, "fresh", id)
}

func scanFresh(row rowScanner) (*model.Fresh, error) {
	f := &model.Fresh{}
	if err := row.Scan(&f.ID, &f.Name, &f.PreparedDate, &f.PurchaseDate, &f.Price); err != nil {
		return nil, err
	}
	return f, nil
}
