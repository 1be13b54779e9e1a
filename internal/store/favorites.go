package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/liquorlocker/internal/model"
)

// CreateFavorite saves a cocktail. Timestamps are Unix milliseconds.
func CreateFavorite(ctx context.Context, db *sql.DB, fav model.Favorite) (*model.Favorite, error) {
	if fav.Ingredients == nil {
		fav.Ingredients = model.Ingredients{}
	}
	if fav.Instructions == nil {
		fav.Instructions = model.Steps{}
	}
	now := time.Now().UnixMilli()

	result, err := db.ExecContext(ctx,
		`INSERT INTO favorites (name, description, ingredients, instructions, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		fav.Name, fav.Description, fav.Ingredients, fav.Instructions, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating favorite: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting favorite id: %w", err)
	}

	fav.ID = int(id)
	fav.CreatedAt = now
	fav.UpdatedAt = now
	return &fav, nil
}

// ListFavorites returns all favorites, most recently saved first.
func ListFavorites(ctx context.Context, db *sql.DB) ([]model.Favorite, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, description, ingredients, instructions, created_at, updated_at
		 FROM favorites ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}
	defer rows.Close()

	var favorites []model.Favorite
	for rows.Next() {
		var f model.Favorite
		if err := rows.Scan(&f.ID, &f.Name, &f.Description, &f.Ingredients, &f.Instructions, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning favorite: %w", err)
		}
		favorites = append(favorites, f)
	}
	return favorites, rows.Err()
}

// DeleteFavorite removes a favorite. It reports whether the favorite existed.
func DeleteFavorite(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	return deleteByID(ctx, db, "favorites", id)
}
