package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-admin/internal/common/logger"
)

func openMemory(t *testing.T) *DB {
	t.Helper()
	db, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(context.Background(), db, logger.Nop()))
	return db
}

func TestRebind(t *testing.T) {
	q := "SELECT a FROM t WHERE b = ? AND c = ?"
	assert.Equal(t, "SELECT a FROM t WHERE b = $1 AND c = $2", Postgres.Rebind(q))
	assert.Equal(t, q, SQLite.Rebind(q))
}

func TestMigrateCreatesTablesOnce(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	for _, table := range []string{"usuarios", "pedidos", "historico", "estoque"} {
		var n int
		require.NoError(t, db.Conn.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&n), table)
		assert.Equal(t, 1, n, table)
	}

	require.NoError(t, Migrate(ctx, db, logger.Nop()))
	var applied int
	require.NoError(t, db.Conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, 1, applied)
}

func TestWithTxRollsBack(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := WithTx(ctx, db.Conn, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO "clientes" ("nome") VALUES (?)`, "Ana"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, db.Conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM "clientes"`).Scan(&n))
	assert.Zero(t, n)

	require.NoError(t, WithTx(ctx, db.Conn, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO "clientes" ("nome") VALUES (?)`, "Ana")
		return err
	}))
	require.NoError(t, db.Conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM "clientes"`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSplitStatements(t *testing.T) {
	got := splitStatements("-- header\nCREATE TABLE a (x INT);\n\n-- only a comment\n;CREATE TABLE b (y INT);\n")
	assert.Equal(t, []string{"CREATE TABLE a (x INT)", "CREATE TABLE b (y INT)"}, got)
}
