package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/erazemk/liquorlocker/internal/app"
	"github.com/erazemk/liquorlocker/internal/localstore"
)

// secretKeys are masked by settings show.
var secretKeys = map[string]bool{localstore.KeyAPIKey: true}

func cmdSettings(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "settings", "settings show | set <key> <value> | unset <key>")
	if len(args) == 0 {
		return usageError(fs, "missing subcommand")
	}

	a, err := app.New(*e.cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	switch sub, rest := args[0], args[1:]; sub {
	case "show":
		values, keys, err := a.Local.All(ctx)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(keys)+1)
		for _, k := range keys {
			v := values[k]
			if secretKeys[k] {
				v = mask(v)
			}
			rows = append(rows, []string{k, v})
		}
		rows = append(rows, []string{"(week starts on)", localstore.WeekStart(a.Local).String()})
		renderTable(e.stdout, []string{"KEY", "VALUE"}, rows)
		return nil

	case "set":
		if len(rest) != 2 {
			return usageError(fs, "set needs a key and a value")
		}
		key, value := rest[0], rest[1]
		if key == localstore.KeyWeekStart {
			day, err := parseWeekday(value)
			if err != nil {
				return err
			}
			return localstore.SetWeekStart(a.Local, day)
		}
		return a.Local.Put(ctx, key, value)

	case "unset":
		if len(rest) != 1 {
			return usageError(fs, "unset needs a key")
		}
		return a.Local.Delete(ctx, rest[0])

	default:
		return usageError(fs, "unknown subcommand: %s", sub)
	}
}

func parseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sunday", "sun", "0":
		return time.Sunday, nil
	case "monday", "mon", "1":
		return time.Monday, nil
	}
	return 0, fmt.Errorf("week start must be sunday or monday, got %q", s)
}

// mask keeps the last four characters of a secret.
func mask(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
