package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/erazemk/liquorlocker/internal/app"
	"github.com/erazemk/liquorlocker/internal/apperr"
	"github.com/erazemk/liquorlocker/internal/inventory"
	"github.com/erazemk/liquorlocker/internal/model"
)

// entityCommand drives one inventory store from the command line.
type entityCommand[R inventory.Record, D inventory.Draft[D]] struct {
	name  string
	noun  string
	store func(*app.App) *inventory.Store[R, D]
	input func(R) D
	// bind registers the editable fields of d on fs, with d's current
	// values as defaults.
	bind func(fs *flag.FlagSet, d *D)
	// setOpened is nil for entities without an opened flag.
	setOpened func(d *D, opened bool, today model.Date)
	header    []string
	row       func(R) []string
}

var bottlesCommand = entityCommand[model.Bottle, model.BottleInput]{
	name:  "bottles",
	noun:  "Bottle",
	store: func(a *app.App) *inventory.Bottles { return a.Bottles },
	input: model.Bottle.Input,
	bind: func(fs *flag.FlagSet, d *model.BottleInput) {
		bindCommon(fs, &d.Name, &d.PurchaseDate, &d.Price)
		bindOpenable(fs, &d.Openable)
	},
	setOpened: func(d *model.BottleInput, opened bool, today model.Date) { d.SetOpened(opened, today) },
	header:    []string{"ID", "NAME", "OPENED", "PURCHASED", "PRICE"},
	row: func(b model.Bottle) []string {
		return openableRow(b.ID, b.Name, b.Openable, b.PurchaseDate, model.FormatPrice(b.Price))
	},
}

var mixersCommand = entityCommand[model.Mixer, model.MixerInput]{
	name:  "mixers",
	noun:  "Mixer",
	store: func(a *app.App) *inventory.Mixers { return a.Mixers },
	input: model.Mixer.Input,
	bind: func(fs *flag.FlagSet, d *model.MixerInput) {
		bindCommon(fs, &d.Name, &d.PurchaseDate, &d.Price)
		bindOpenable(fs, &d.Openable)
	},
	setOpened: func(d *model.MixerInput, opened bool, today model.Date) { d.SetOpened(opened, today) },
	header:    []string{"ID", "NAME", "OPENED", "PURCHASED", "PRICE"},
	row: func(m model.Mixer) []string {
		return openableRow(m.ID, m.Name, m.Openable, m.PurchaseDate, model.FormatPrice(m.Price))
	},
}

var freshCommand = entityCommand[model.Fresh, model.FreshInput]{
	name:  "fresh",
	noun:  "Fresh item",
	store: func(a *app.App) *inventory.Fresh { return a.Fresh },
	input: model.Fresh.Input,
	bind: func(fs *flag.FlagSet, d *model.FreshInput) {
		bindCommon(fs, &d.Name, &d.PurchaseDate, &d.Price)
		fs.Var(dateValue{&d.PreparedDate}, "prepared", "date prepared (YYYY-MM-DD, or none)")
	},
	header: []string{"ID", "NAME", "PREPARED", "PURCHASED", "PRICE"},
	row: func(f model.Fresh) []string {
		return []string{strconv.FormatInt(f.ID, 10), f.Name, formatDate(f.PreparedDate), formatDate(f.PurchaseDate), model.FormatPrice(f.Price)}
	},
}

func cmdBottles(ctx context.Context, e *env, args []string) error {
	return bottlesCommand.run(ctx, e, args)
}

func cmdMixers(ctx context.Context, e *env, args []string) error {
	return mixersCommand.run(ctx, e, args)
}

func cmdFresh(ctx context.Context, e *env, args []string) error {
	return freshCommand.run(ctx, e, args)
}

func (c entityCommand[R, D]) synopsis() string {
	if c.setOpened != nil {
		return c.name + " list | add [flags] | edit <id> [flags] | open <id> | close <id> | rm <id>"
	}
	return c.name + " list | add [flags] | edit <id> [flags] | rm <id>"
}

func (c entityCommand[R, D]) run(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, c.name, c.synopsis())
	if len(args) == 0 {
		return usageError(fs, "missing subcommand")
	}
	sub, rest := args[0], args[1:]

	var draft D
	var id int64
	switch sub {
	case "list":
	case "add":
		c.bind(fs, &draft)
	case "edit", "open", "close", "rm":
		if sub != "edit" && sub != "rm" && c.setOpened == nil {
			return usageError(fs, "unknown subcommand: %s", sub)
		}
		if len(rest) == 0 {
			return usageError(fs, "missing id")
		}
		n, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil {
			return usageError(fs, "invalid id: %s", rest[0])
		}
		id, rest = n, rest[1:]
	default:
		return usageError(fs, "unknown subcommand: %s", sub)
	}

	a, err := app.New(*e.cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	s := c.store(a)

	switch sub {
	case "list":
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		if err := s.List(ctx); err != nil {
			return err
		}
		c.print(e.stdout, s.Items())
		return nil

	case "add":
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		created, err := s.Create(ctx, draft)
		if err != nil {
			return err
		}
		c.print(e.stdout, []R{created})
		return nil

	case "rm":
		if !s.Delete(ctx, id) {
			return s.LastError()
		}
		fmt.Fprintf(e.stdout, "Deleted %s %d\n", c.noun, id)
		return nil
	}

	// edit, open and close send the full record, so start from the current one.
	if err := s.List(ctx); err != nil {
		return err
	}
	current, ok := s.Find(id)
	if !ok {
		return apperr.HTTP(404, fmt.Sprintf("%s with ID %d not found", c.noun, id))
	}
	draft = c.input(current)

	switch sub {
	case "edit":
		c.bind(fs, &draft)
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
	case "open", "close":
		c.setOpened(&draft, sub == "open", model.Today())
	}

	updated, err := s.Update(ctx, id, draft)
	if err != nil {
		return err
	}
	c.print(e.stdout, []R{updated})
	return nil
}

func (c entityCommand[R, D]) print(w io.Writer, items []R) {
	rows := make([][]string, len(items))
	for i, it := range items {
		rows[i] = c.row(it)
	}
	renderTable(w, c.header, rows)
}

func bindCommon(fs *flag.FlagSet, name *string, purchased **model.Date, price **decimal.Decimal) {
	fs.StringVar(name, "name", *name, "name")
	fs.StringVar(name, "n", *name, "")
	fs.Var(dateValue{purchased}, "purchased", "purchase date (YYYY-MM-DD, or none)")
	fs.Var(priceValue{price}, "price", "price, e.g. 42.50 (or none)")
}

func bindOpenable(fs *flag.FlagSet, o *model.Openable) {
	fs.BoolVar(&o.Opened, "opened", o.Opened, "whether it has been opened")
	fs.Var(dateValue{&o.OpenDate}, "opened-on", "date opened (YYYY-MM-DD, or none)")
}

func openableRow(id int64, name string, o model.Openable, purchased *model.Date, price string) []string {
	opened := "no"
	if o.Opened {
		opened = "yes " + formatDate(o.OpenDate)
	}
	return []string{strconv.FormatInt(id, 10), name, opened, formatDate(purchased), price}
}
