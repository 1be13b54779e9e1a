// Package localstore is durable local storage: a string key/value store that
// survives restarts, used for credentials and UI preferences. Absence of a
// key is equivalent to an unconfigured default.
package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Keys used by the application.
const (
	KeyAPIURL          = "apiUrl"
	KeyAPIKey          = "apiKey"
	KeySelectedModel   = "selectedModel"
	KeyLastConfigured  = "lastConfigured"
	KeyLastAISettings  = "lastAISettings"
	KeyWeekStart       = "weekStart"
	KeyRecommendations = "magicBartenderRecommendations"
)

// Storage is the key/value contract consumed by the AI configuration and
// recommendation services.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

// Store is a Storage backed by the local_storage table.
type Store struct {
	db *sql.DB
}

// New returns a store on an open database with the schema applied.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Get returns the value for key. Read failures are logged and reported as
// an absent key.
func (s *Store) Get(key string) (string, bool) {
	value, ok, err := s.Lookup(context.Background(), key)
	if err != nil {
		slog.Error("local storage read failed", "key", key, "error", err)
		return "", false
	}
	return value, ok
}

// Set stores value under key. Write failures are logged.
func (s *Store) Set(key, value string) {
	if err := s.Put(context.Background(), key, value); err != nil {
		slog.Error("local storage write failed", "key", key, "error", err)
	}
}

// Remove deletes key. Failures are logged.
func (s *Store) Remove(key string) {
	if err := s.Delete(context.Background(), key); err != nil {
		slog.Error("local storage delete failed", "key", key, "error", err)
	}
}

// Lookup returns the value for key.
func (s *Store) Lookup(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM local_storage WHERE key = ?`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, true, nil
}

// Put stores value under key, replacing any previous value.
func (s *Store) Put(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO local_storage (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM local_storage WHERE key = ?`, key); err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

// All returns every stored key/value pair, ordered by key.
func (s *Store) All(ctx context.Context) (map[string]string, []string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM local_storage ORDER BY key`)
	if err != nil {
		return nil, nil, fmt.Errorf("listing local storage: %w", err)
	}
	defer rows.Close()

	values := map[string]string{}
	var keys []string
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, nil, fmt.Errorf("scanning local storage: %w", err)
		}
		values[k] = v
		keys = append(keys, k)
	}
	return values, keys, rows.Err()
}

// GetJSON decodes the JSON value stored under key into v. It reports false
// when the key is absent or does not hold valid JSON.
func GetJSON(s Storage, key string, v any) bool {
	raw, ok := s.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		slog.Warn("ignoring malformed local storage value", "key", key, "error", err)
		return false
	}
	return true
}

// SetJSON stores v JSON-encoded under key.
func SetJSON(s Storage, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	s.Set(key, string(data))
	return nil
}

// WeekStart returns the first day of the week for calendar pickers. Sunday
// unless set to "monday".
func WeekStart(s Storage) time.Weekday {
	v, _ := s.Get(KeyWeekStart)
	if strings.EqualFold(v, "monday") || v == "1" {
		return time.Monday
	}
	return time.Sunday
}

// SetWeekStart stores the first day of the week. Only Sunday and Monday
// are meaningful.
func SetWeekStart(s Storage, day time.Weekday) error {
	switch day {
	case time.Sunday:
		s.Set(KeyWeekStart, "sunday")
	case time.Monday:
		s.Set(KeyWeekStart, "monday")
	default:
		return fmt.Errorf("unsupported week start %s", day)
	}
	return nil
}

// Memory is an in-process Storage, for tests and ephemeral sessions.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemory returns an empty in-memory storage.
func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *Memory) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

func (m *Memory) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}
