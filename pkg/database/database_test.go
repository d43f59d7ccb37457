package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSQLiteFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dsn    string
		want   string
		wantOK bool
	}{
		{dsn: "file:db/chatfood.db?_pragma=busy_timeout(5000)", want: "db/chatfood.db", wantOK: true},
		{dsn: "db/chatfood.db", want: "db/chatfood.db", wantOK: true},
		{dsn: "file:///var/lib/chatfood.db", want: "/var/lib/chatfood.db", wantOK: true},
		{dsn: ":memory:"},
		{dsn: "file::memory:?cache=shared"},
		{dsn: "file:chatfood?mode=memory&cache=shared"},
	}
	for _, tt := range tests {
		got, ok := sqliteFilePath(tt.dsn)
		if got != tt.want || ok != tt.wantOK {
			t.Fatalf("sqliteFilePath(%q) = (%q, %v), want (%q, %v)", tt.dsn, got, ok, tt.want, tt.wantOK)
		}
	}
}

// Chdir rules out t.Parallel here.
func TestNewCreatesSQLiteDirFromEmptyWorkdir(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := Config{Driver: DriverSQLite, DSN: "file:db/chatfood.db?_pragma=busy_timeout(5000)"}
	db, err := cfg.New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(context.Background(), "CREATE TABLE foods (id INTEGER PRIMARY KEY, name TEXT)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := os.Stat(filepath.Join("db", "chatfood.db")); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	t.Parallel()

	if _, err := (&Config{Driver: "mysql", DSN: "x"}).New(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
