package model

import "github.com/shopspring/decimal"

func init() {
	// Prices travel as JSON numbers, matching the inventory API.
	decimal.MarshalJSONWithoutQuotes = true
}

// NewPrice parses a price such as "42.50".
func NewPrice(s string) (*decimal.Decimal, error) {
	p, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FormatPrice renders an optional price with cent precision, or "-" if absent.
func FormatPrice(p *decimal.Decimal) string {
	if p == nil {
		return "-"
	}
	return "$" + p.StringFixed(2)
}
