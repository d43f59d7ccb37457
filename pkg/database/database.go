package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver       string        `split_words:"true" default:"sqlite"`
	DSN          string        `envconfig:"DSN" default:"file:db/chatfood.db?_pragma=busy_timeout(5000)"`
	MaxOpenConns int           `split_words:"true" default:"4"`
	ConnMaxIdle  time.Duration `split_words:"true" default:"5m"`
}

// New opens a bun handle for the configured driver. SQLite is the local
// default; postgres is selected with DATABASE_DRIVER=postgres.
func (c *Config) New() (*bun.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(c.Driver))
	dsn := strings.TrimSpace(c.DSN)
	if dsn == "" {
		return nil, fmt.Errorf("database: dsn is required")
	}

	var db *bun.DB
	switch driver {
	case DriverPostgres:
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
		db = bun.NewDB(sqldb, pgdialect.New())
	case DriverSQLite, "":
		if path, ok := sqliteFilePath(dsn); ok {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("database: create sqlite dir: %w", err)
			}
		}
		sqldb, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("database: open sqlite: %w", err)
		}
		db = bun.NewDB(sqldb, sqlitedialect.New())
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", c.Driver)
	}

	if c.MaxOpenConns > 0 {
		db.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.ConnMaxIdle > 0 {
		db.SetConnMaxIdleTime(c.ConnMaxIdle)
	}
	return db, nil
}

// sqliteFilePath extracts the database file from a sqlite DSN such as
// "file:db/chatfood.db?_pragma=..." or "db/chatfood.db". In-memory DSNs
// report false.
func sqliteFilePath(dsn string) (string, bool) {
	path, query, _ := strings.Cut(dsn, "?")
	path = strings.TrimPrefix(path, "file:")
	if strings.HasPrefix(path, "///") {
		path = path[2:]
	}
	if path == "" || strings.HasPrefix(path, ":memory:") || strings.Contains(query, "mode=memory") {
		return "", false
	}
	return path, true
}

func (c *Config) MustNew() *bun.DB {
	db, err := c.New()
	if err != nil {
		panic(err)
	}
	return db
}
