package main

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/erazemk/liquorlocker/internal/model"
)

// dateValue is a flag.Value for an optional date. "none" or an empty value
// clears it.
type dateValue struct {
	p **model.Date
}

func (v dateValue) String() string {
	if v.p == nil || *v.p == nil {
		return ""
	}
	return (*v.p).String()
}

func (v dateValue) Set(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || s == "none" {
		*v.p = nil
		return nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return err
	}
	*v.p = &d
	return nil
}

// priceValue is a flag.Value for an optional price. "none" or an empty value
// clears it.
type priceValue struct {
	p **decimal.Decimal
}

func (v priceValue) String() string {
	if v.p == nil || *v.p == nil {
		return ""
	}
	return (*v.p).String()
}

func (v priceValue) Set(s string) error {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" || s == "none" {
		*v.p = nil
		return nil
	}
	price, err := model.NewPrice(s)
	if err != nil {
		return err
	}
	*v.p = price
	return nil
}

func formatDate(d *model.Date) string {
	if d == nil {
		return "-"
	}
	return d.String()
}
