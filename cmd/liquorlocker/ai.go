package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/erazemk/liquorlocker/internal/aiconfig"
	"github.com/erazemk/liquorlocker/internal/app"
	"github.com/erazemk/liquorlocker/internal/model"
)

// printNotifier shows AI notifications on the terminal.
type printNotifier struct {
	out io.Writer
}

func (n printNotifier) Success(title, description string) {
	fmt.Fprintf(n.out, "%s %s\n", successStyle.Render(title), description)
}

func (n printNotifier) Error(title, description string) {
	fmt.Fprintf(n.out, "%s %s\n", errorStyle.Render(title), description)
}

func cmdAI(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "ai", "ai configure | models | select <model> | status")
	if len(args) == 0 {
		return usageError(fs, "missing subcommand")
	}

	a, err := app.New(*e.cfg, app.WithNotifier(printNotifier{out: e.stderr}))
	if err != nil {
		return err
	}
	defer a.Close()

	switch sub, rest := args[0], args[1:]; sub {
	case "configure":
		if err := a.AI.Configure(ctx); err != nil {
			return err
		}
		printModels(e.stdout, a.AI.Snapshot())
		return nil

	case "models":
		if err := a.AI.RefreshModels(ctx); err != nil {
			return err
		}
		printModels(e.stdout, a.AI.Snapshot())
		return nil

	case "select":
		if len(rest) != 1 {
			return usageError(fs, "select needs a model (\"\" clears the selection)")
		}
		a.AI.SetSelectedModel(strings.TrimSpace(rest[0]))
		if m := a.AI.SelectedModel(); m != "" {
			fmt.Fprintf(e.stdout, "Selected %s\n", m)
		} else {
			fmt.Fprintln(e.stdout, "Selection cleared")
		}
		return nil

	case "status":
		snap := a.AI.Snapshot()
		rows := [][]string{{"state", snap.State.String()}}
		if snap.LastConfigured != nil {
			rows = append(rows, []string{"last configured", snap.LastConfigured.Local().Format(time.DateTime)})
		}
		rows = append(rows, []string{"selected model", orDash(snap.SelectedModel)})
		initialized, err := a.AI.Status(ctx)
		if err != nil {
			rows = append(rows, []string{"backend", "unreachable"})
		} else {
			rows = append(rows, []string{"backend initialized", strconv.FormatBool(initialized)})
		}
		renderTable(e.stdout, nil, rows)
		return err

	default:
		return usageError(fs, "unknown subcommand: %s", sub)
	}
}

func cmdRecommend(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "recommend", "recommend [-cached]")
	cached := fs.Bool("cached", false, "show the last recommendation without asking again")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	a, err := app.New(*e.cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	var rec *model.Recommendation
	if *cached {
		var ok bool
		if rec, ok = a.Bartender.Cached(); !ok {
			fmt.Fprintln(e.stdout, "No cached recommendation.")
			return nil
		}
	} else if rec, err = a.Bartender.Recommend(ctx); err != nil {
		return err
	}

	printRecommendation(e.stdout, rec)
	return nil
}

func cmdFavorites(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "favorites", "favorites list | save <n> | rm <id>")
	if len(args) == 0 {
		return usageError(fs, "missing subcommand")
	}

	a, err := app.New(*e.cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	switch sub, rest := args[0], args[1:]; sub {
	case "list":
		favs, err := a.Favorites.List(ctx)
		if err != nil {
			return err
		}
		rows := make([][]string, len(favs))
		for i, f := range favs {
			rows[i] = []string{strconv.Itoa(f.ID), f.Name, strconv.Itoa(len(f.Ingredients))}
		}
		renderTable(e.stdout, []string{"ID", "NAME", "INGREDIENTS"}, rows)
		return nil

	case "save":
		if len(rest) != 1 {
			return usageError(fs, "save needs the number of a cached cocktail")
		}
		n, err := strconv.Atoi(rest[0])
		if err != nil {
			return usageError(fs, "invalid number: %s", rest[0])
		}
		rec, ok := a.Bartender.Cached()
		if !ok || n < 1 || n > len(rec.Cocktails) {
			return fmt.Errorf("no cached cocktail number %d; run recommend first", n)
		}
		saved, err := a.Favorites.Save(ctx, rec.Cocktails[n-1])
		if err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "Saved %s as favorite %d\n", saved.Name, saved.ID)
		return nil

	case "rm":
		if len(rest) != 1 {
			return usageError(fs, "rm needs an id")
		}
		id, err := strconv.Atoi(rest[0])
		if err != nil {
			return usageError(fs, "invalid id: %s", rest[0])
		}
		if err := a.Favorites.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "Deleted favorite %d\n", id)
		return nil

	default:
		return usageError(fs, "unknown subcommand: %s", sub)
	}
}

func printModels(w io.Writer, snap aiconfig.Snapshot) {
	if len(snap.Models) == 0 {
		fmt.Fprintln(w, "No models available.")
		return
	}
	for _, m := range snap.Models {
		marker := " "
		if m == snap.SelectedModel {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s\n", marker, m)
	}
}

func printRecommendation(w io.Writer, rec *model.Recommendation) {
	if rec.Empty() {
		fmt.Fprintln(w, "No cocktails recommended.")
		return
	}
	if len(rec.Cocktails) == 0 {
		fmt.Fprintln(w, rec.Text)
		return
	}
	for i, c := range rec.Cocktails {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%d. %s\n", i+1, c.Name)
		if c.Description != "" {
			fmt.Fprintf(w, "   %s\n", c.Description)
		}
		for _, ing := range c.Ingredients {
			fmt.Fprintf(w, "   - %s %s\n", ing.Quantity, ing.Name)
		}
		for _, st := range c.Steps {
			fmt.Fprintf(w, "   %d) %s\n", st.Order, st.Text)
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
