package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/erazemk/liquorlocker/internal/api"
	"github.com/erazemk/liquorlocker/internal/auth"
	"github.com/erazemk/liquorlocker/internal/db"
	"github.com/erazemk/liquorlocker/internal/store"
)

func cmdServe(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "serve", "serve [-db path] [-addr host:port] [-open] [-log path]")

	var dbPath string
	fs.StringVar(&dbPath, "db", e.cfg.DB, "SQLite database path")
	fs.StringVar(&dbPath, "d", e.cfg.DB, "")

	var addr string
	fs.StringVar(&addr, "addr", e.cfg.Addr, "listen address")
	fs.StringVar(&addr, "a", e.cfg.Addr, "")

	var open bool
	fs.BoolVar(&open, "open", false, "disable API key authentication")

	var logPath string
	fs.StringVar(&logPath, "log", e.cfg.LogFile, "log file path")
	fs.StringVar(&logPath, "l", e.cfg.LogFile, "")

	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return usageError(fs, "unexpected argument: %s", fs.Arg(0))
	}

	// The server logs records below ERROR to stdout.
	level, _ := e.cfg.Level()
	closeLog, err := setupLogger(e.stdout, e.stderr, level, logPath)
	if err != nil {
		return err
	}
	defer closeLog()

	database, secret, err := openServerDB(ctx, dbPath)
	if err != nil {
		return err
	}
	defer database.Close()
	slog.Info("database ready", "path", dbPath)

	if open {
		slog.Warn("API key authentication disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	server := &http.Server{
		Addr: addr,
		Handler: api.NewRouter(database, secret, api.Options{
			Open:           open,
			AllowedOrigins: e.cfg.AllowedOrigins,
			Registry:       reg,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown when ctx is cancelled (SIGINT/SIGTERM).
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped, closing database")
	return nil
}

func cmdKeygen(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "keygen", "keygen [-db path] [-label name] [-ttl duration]")

	var dbPath string
	fs.StringVar(&dbPath, "db", e.cfg.DB, "SQLite database path")
	fs.StringVar(&dbPath, "d", e.cfg.DB, "")

	var label string
	fs.StringVar(&label, "label", "", "label stored in the key")

	var ttl time.Duration
	fs.DurationVar(&ttl, "ttl", 0, "key lifetime (default: never expires)")

	if err := parseFlags(fs, args); err != nil {
		return err
	}

	database, secret, err := openServerDB(ctx, dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	key, err := auth.GenerateAPIKey(secret, label, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, key)
	return nil
}

func cmdRevoke(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "revoke", "revoke [-db path] <key>")

	var dbPath string
	fs.StringVar(&dbPath, "db", e.cfg.DB, "SQLite database path")
	fs.StringVar(&dbPath, "d", e.cfg.DB, "")

	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usageError(fs, "expected exactly one key")
	}

	jti, err := auth.KeyID(fs.Arg(0))
	if err != nil {
		return err
	}

	database, _, err := openServerDB(ctx, dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := store.RevokeKey(ctx, database, jti); err != nil {
		return err
	}
	slog.Info("api key revoked", "jti", jti)
	fmt.Fprintf(e.stdout, "Revoked key %s\n", jti)
	return nil
}

// openServerDB opens and migrates the server database and loads the API key
// secret, generating it on first use.
func openServerDB(ctx context.Context, path string) (*sql.DB, string, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, "", err
	}
	if err := db.Migrate(database); err != nil {
		database.Close()
		return nil, "", fmt.Errorf("migrating database: %w", err)
	}

	secret, err := store.GetAPIKeySecret(ctx, database)
	if err != nil {
		database.Close()
		return nil, "", err
	}
	return database, secret, nil
}
