package db

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestDSNCarriesPragmas(t *testing.T) {
	dsn := DSN("data.sqlite3")
	if !strings.HasPrefix(dsn, "data.sqlite3?") {
		t.Fatalf("unexpected dsn prefix: %q", dsn)
	}
	if !strings.Contains(dsn, "foreign_keys%281%29") {
		t.Errorf("expected foreign_keys pragma in %q", dsn)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	database, err := Open(filepath.Join(t.TempDir(), "test.sqlite3"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close()

	for i := 0; i < 2; i++ {
		if err := Migrate(database); err != nil {
			t.Fatalf("Migrate run %d: %v", i+1, err)
		}
	}

	var fk int
	if err := database.QueryRow(`PRAGMA foreign_keys`).Scan(&fk); err != nil {
		t.Fatalf("reading foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}
}

func TestCasefold(t *testing.T) {
	database := NewTestDB(t)

	tests := []struct {
		in   any
		want any
	}{
		{"Šotor", "šotor"},
		{"ČEVLJI", "čevlji"},
		{"plain", "plain"},
		{nil, nil},
	}
	for _, tt := range tests {
		var got any
		if err := database.QueryRow(`SELECT casefold(?)`, tt.in).Scan(&got); err != nil {
			t.Fatalf("casefold(%v): %v", tt.in, err)
		}
		if tt.want == nil {
			if got != nil {
				t.Errorf("casefold(NULL): expected NULL, got %v", got)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("casefold(%v): expected %q, got %v", tt.in, tt.want, got)
		}
	}

	if Fold("Šotor") != "šotor" {
		t.Errorf("Fold: expected šotor, got %q", Fold("Šotor"))
	}
}
