// Package database opens the record store connection. Postgres goes through
// the pgx stdlib driver, SQLite through modernc.org/sqlite; both are used via
// database/sql so the repositories share one code path.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/config"
)

type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

type DB struct {
	Conn    *sql.DB
	Dialect Dialect
}

func (db *DB) Close() error { return db.Conn.Close() }

// Rebind turns ? placeholders into $n for Postgres.
func (db *DB) Rebind(query string) string { return db.Dialect.Rebind(query) }

func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// Open connects according to cfg.Driver and applies pending migrations.
func Open(ctx context.Context, cfg config.DatabaseConfig, lg *logger.Logger) (*DB, error) {
	var (
		db  *DB
		err error
	)
	switch cfg.Driver {
	case "postgres":
		var conn *sql.DB
		conn, err = ConnectDB(ctx, cfg)
		db = &DB{Conn: conn, Dialect: Postgres}
	case "sqlite":
		db, err = OpenSQLite(ctx, cfg.Path)
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db, lg); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	lg.Info("db_connected", map[string]any{"driver": cfg.Driver})
	return db, nil
}

// OpenSQLite opens path, creating its directory. ":memory:" gives a private
// in-memory database.
func OpenSQLite(ctx context.Context, path string) (*DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	conn, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection: a second one would see another :memory: database
	// and writers would fight over the file lock
	conn.SetMaxOpenConns(1)
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &DB{Conn: conn, Dialect: SQLite}, nil
}

// ConnectDB retries until Postgres answers a ping or ctx ends.
func ConnectDB(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, sslmode)

	const (
		maxRetries = 10
		retryDelay = 2 * time.Second
		pingTTL    = 5 * time.Second
	)

	var db *sql.DB
	var err error

	for i := 1; i <= maxRetries; i++ {
		// открываем соединение
		db, err = sql.Open("pgx", dsn)
		if err != nil {
			select {
			case <-time.After(retryDelay):
				continue
			case <-ctx.Done():
				return nil, fmt.Errorf("db open canceled: %w", ctx.Err())
			}
		}

		pctx, cancel := context.WithTimeout(ctx, pingTTL)
		err = db.PingContext(pctx)
		cancel()
		if err == nil {
			return db, nil
		}

		_ = db.Close()

		select {
		case <-time.After(retryDelay):
			continue
		case <-ctx.Done():
			return nil, fmt.Errorf("db ping canceled: %w", ctx.Err())
		}
	}

	return nil, fmt.Errorf("database unreachable after %d attempts: %w", maxRetries, err)
}
