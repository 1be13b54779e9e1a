package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Mixer is a soda, tonic or other non-spirit mixer.
type Mixer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Openable
	PurchaseDate *Date           `json:"purchase_date"`
	Price        *decimal.Decimal `json:"price"`
}

// Key returns the server-assigned id.
func (m Mixer) Key() int64 { return m.ID }

// Input returns the editable fields of the mixer.
func (m Mixer) Input() MixerInput {
	return MixerInput{
		Name:         m.Name,
		Openable:     m.Openable,
		PurchaseDate: m.PurchaseDate,
		Price:        m.Price,
	}
}

// MixerInput is the request body for creating or replacing a mixer.
type MixerInput struct {
	Name string `json:"name" validate:"required"`
	Openable
	PurchaseDate *Date           `json:"purchase_date"`
	Price        *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
}

// Normalized trims the name and enforces the opened invariant.
func (in MixerInput) Normalized(today Date) MixerInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Openable = in.Openable.normalize(today)
	return in
}
