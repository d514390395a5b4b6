package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/connections/database"
	"restaurant-admin/internal/domain"
)

// extraStores lets build-tagged files add backends that need external
// services.
var extraStores = map[string]func(t *testing.T) RecordRepository{}

func stores(t *testing.T) map[string]RecordRepository {
	t.Helper()
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(ctx, db, logger.Nop()))

	out := map[string]RecordRepository{
		"sqlite": New(db).Records,
		"memory": NewInMemory().Records,
	}
	for name, open := range extraStores {
		out[name] = open(t)
	}
	return out
}

func TestRecordRepository(t *testing.T) {
	for name, repo := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := domain.Clientes

			list, err := repo.List(ctx, s)
			require.NoError(t, err)
			assert.Empty(t, list)

			id, err := repo.Insert(ctx, s, domain.Record{"nome": "Ana", "telefone": "111", "endereco": "Rua A"})
			require.NoError(t, err)
			assert.Equal(t, "1", id)

			got, err := repo.Get(ctx, s, id)
			require.NoError(t, err)
			assert.Equal(t, domain.Record{
				"id_cliente": json.Number("1"),
				"nome":       "Ana",
				"telefone":   "111",
				"endereco":   "Rua A",
			}, got)

			require.NoError(t, repo.Replace(ctx, s, id, domain.Record{"nome": "Ana", "telefone": "222", "endereco": ""}))
			got, err = repo.Get(ctx, s, id)
			require.NoError(t, err)
			assert.Equal(t, "222", got["telefone"])
			assert.Equal(t, "", got["endereco"])

			require.NoError(t, repo.Delete(ctx, s, id))
			assert.ErrorIs(t, repo.Delete(ctx, s, id), domain.ErrNotFound)
			_, err = repo.Get(ctx, s, id)
			assert.ErrorIs(t, err, domain.ErrNotFound)
			assert.ErrorIs(t, repo.Replace(ctx, s, id, domain.Record{}), domain.ErrNotFound)
			_, err = repo.Get(ctx, s, "abc")
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestTypedColumns(t *testing.T) {
	for name, repo := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			id, err := repo.Insert(ctx, domain.Pedidos, domain.Record{
				"cliente_id_cliente":       int64(3),
				"entregador_id_entregador": nil,
				"usuarios_id_usuario":      int64(1),
				"pratos_id_prato":          int64(2),
				"data_pedido":              "2024-05-01T12:00",
				"tempo_estimado":           float64(45),
			})
			require.NoError(t, err)
			got, err := repo.Get(ctx, domain.Pedidos, id)
			require.NoError(t, err)
			assert.Equal(t, json.Number("3"), got["cliente_id_cliente"])
			assert.Nil(t, got["entregador_id_entregador"])
			assert.Equal(t, json.Number("45"), got["tempo_estimado"])

			uid, err := repo.Insert(ctx, domain.Usuarios, domain.Record{
				"nome": "Ana", "email": "ana@example.com", "senha": "hash",
				"acesso_dashboard": true, "acesso_estoque": false,
				"acesso_criar_usuario": false, "acesso_criar_pedido": false,
			})
			require.NoError(t, err)
			u, err := repo.FindBy(ctx, domain.Usuarios, "email", "ana@example.com")
			require.NoError(t, err)
			assert.Equal(t, uid, u.ID("id"))
			assert.Equal(t, true, u["acesso_dashboard"])
			assert.Equal(t, false, u["acesso_estoque"])
			assert.Equal(t, "hash", u["senha"])

			_, err = repo.Insert(ctx, domain.Usuarios, domain.Record{
				"nome": "Outra", "email": "ana@example.com", "senha": "",
				"acesso_dashboard": false, "acesso_estoque": false,
				"acesso_criar_usuario": false, "acesso_criar_pedido": false,
			})
			assert.ErrorIs(t, err, domain.ErrConflict)

			_, err = repo.FindBy(ctx, domain.Usuarios, "email", "bob@example.com")
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}
