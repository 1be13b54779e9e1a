package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Bottle is a bottle of spirits in the collection.
type Bottle struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Openable
	PurchaseDate *Date           `json:"purchase_date"`
	Price        *decimal.Decimal `json:"price"`
}

// Key returns the server-assigned id.
func (b Bottle) Key() int64 { return b.ID }

// Input returns the editable fields of the bottle, for a full-record update.
func (b Bottle) Input() BottleInput {
	return BottleInput{
		Name:         b.Name,
		Openable:     b.Openable,
		PurchaseDate: b.PurchaseDate,
		Price:        b.Price,
	}
}

// BottleInput is the request body for creating or replacing a bottle.
type BottleInput struct {
	Name string `json:"name" validate:"required"`
	Openable
	PurchaseDate *Date           `json:"purchase_date"`
	Price        *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
}

// Normalized trims the name and enforces the opened invariant.
func (in BottleInput) Normalized(today Date) BottleInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Openable = in.Openable.normalize(today)
	return in
}
