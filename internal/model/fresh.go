package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Fresh is a house-made syrup, infusion or juice. It has no opened flag;
// PreparedDate is set independently.
type Fresh struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	PreparedDate *Date            `json:"prepared_date"`
	PurchaseDate *Date            `json:"purchase_date"`
	Price        *decimal.Decimal `json:"price"`
}

// Key returns the server-assigned id.
func (f Fresh) Key() int64 { return f.ID }

// Input returns the editable fields of the fresh item.
func (f Fresh) Input() FreshInput {
	return FreshInput{
		Name:         f.Name,
		PreparedDate: f.PreparedDate,
		PurchaseDate: f.PurchaseDate,
		Price:        f.Price,
	}
}

// FreshInput is the request body for creating or replacing a fresh item.
type FreshInput struct {
	Name         string           `json:"name" validate:"required"`
	PreparedDate *Date            `json:"prepared_date"`
	PurchaseDate *Date            `json:"purchase_date"`
	Price        *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
}

// Normalized trims the name.
func (in FreshInput) Normalized(Date) FreshInput {
	in.Name = strings.TrimSpace(in.Name)
	return in
}
