package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"restaurant-admin/internal/common/logger"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Migrate applies the embedded migrations of db's dialect that are not yet
// recorded in schema_migrations.
func Migrate(ctx context.Context, db *DB, lg *logger.Logger) error {
	dir, err := fs.Sub(migrationsFS, "migrations/"+string(db.Dialect))
	if err != nil {
		return err
	}

	if _, err := db.Conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename   TEXT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	entries, err := fs.ReadDir(dir, ".")
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	applied := map[string]bool{}
	rows, err := db.Conn.QueryContext(ctx, "SELECT filename FROM schema_migrations")
	if err != nil {
		return fmt.Errorf("failed to query schema_migrations: %w", err)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return err
		}
		applied[name] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, file := range files {
		if applied[file] {
			continue
		}
		content, err := fs.ReadFile(dir, file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}
		err = WithTx(ctx, db.Conn, func(tx *sql.Tx) error {
			for i, stmt := range splitStatements(string(content)) {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("migration %s (statement %d): %w", file, i+1, err)
				}
			}
			_, err := tx.ExecContext(ctx, db.Rebind("INSERT INTO schema_migrations (filename) VALUES (?)"), file)
			return err
		})
		if err != nil {
			return err
		}
		lg.Info("migration_applied", map[string]any{"file": file, "dialect": string(db.Dialect)})
	}
	return nil
}

// splitStatements cuts on ';' and drops comment-only chunks. Migrations do
// not put semicolons inside string literals.
func splitStatements(content string) []string {
	var out []string
	for _, chunk := range strings.Split(content, ";") {
		var lines []string
		for _, l := range strings.Split(chunk, "\n") {
			if t := strings.TrimSpace(l); t != "" && !strings.HasPrefix(t, "--") {
				lines = append(lines, l)
			}
		}
		if len(lines) > 0 {
			out = append(out, strings.Join(lines, "\n"))
		}
	}
	return out
}
