// Package app is the composition root of the client side: it opens local
// storage and builds every store and service against one HTTP client.
package app

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/erazemk/liquorlocker/internal/aiconfig"
	"github.com/erazemk/liquorlocker/internal/bartender"
	"github.com/erazemk/liquorlocker/internal/client"
	"github.com/erazemk/liquorlocker/internal/config"
	"github.com/erazemk/liquorlocker/internal/db"
	"github.com/erazemk/liquorlocker/internal/inventory"
	"github.com/erazemk/liquorlocker/internal/localstore"
)

// App holds the client-side services.
type App struct {
	DB     *sql.DB
	Local  *localstore.Store
	Client *client.Client

	Bottles *inventory.Bottles
	Mixers  *inventory.Mixers
	Fresh   *inventory.Fresh

	AI        *aiconfig.Service
	Bartender *bartender.Bartender
	Favorites *bartender.Favorites
}

// Option adjusts how New wires the services.
type Option func(*options)

type options struct {
	notifier aiconfig.Notifier
}

// WithNotifier routes AI notifications somewhere other than the log.
func WithNotifier(n aiconfig.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// New opens the local database and builds the services. Call Close when
// done.
func New(cfg config.Config, opts ...Option) (*App, error) {
	o := options{notifier: aiconfig.LogNotifier{}}
	for _, opt := range opts {
		opt(&o)
	}

	database, err := db.Open(cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrating %s: %w", cfg.DB, err)
	}

	c := client.New(client.Config{
		BaseURL:    cfg.APIURL,
		APIKey:     cfg.APIKey,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	})
	local := localstore.New(database)
	ai := aiconfig.New(local, c, aiconfig.WithNotifier(o.notifier))

	slog.Debug("app ready", "api", c.BaseURL(), "db", cfg.DB)
	return &App{
		DB:        database,
		Local:     local,
		Client:    c,
		Bottles:   inventory.NewBottles(c),
		Mixers:    inventory.NewMixers(c),
		Fresh:     inventory.NewFresh(c),
		AI:        ai,
		Bartender: bartender.New(c, ai, local),
		Favorites: bartender.NewFavorites(c),
	}, nil
}

// Close releases the local database.
func (a *App) Close() error {
	return a.DB.Close()
}
