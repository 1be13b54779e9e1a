package db

import (
	"path/filepath"
	"testing"
)

func TestMigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locker.sqlite3")

	for i := 0; i < 2; i++ {
		database, err := Open(path)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if err := Migrate(database); err != nil {
			t.Fatalf("Migrate run %d: %v", i+1, err)
		}
		database.Close()
	}
}

func TestOpenedCheckConstraint(t *testing.T) {
	database := NewTestDB(t)

	_, err := database.Exec(`INSERT INTO bottles (name, opened, open_date) VALUES ('Bad', 0, '2024-01-01')`)
	if err == nil {
		t.Fatal("expected an unopened bottle with an open date to be rejected")
	}
}
