package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/domain"
	"restaurant-admin/internal/microservices/api/repository"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.ResourceEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev domain.ResourceEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, ev := range p.events {
		out = append(out, ev.RoutingKey())
	}
	return out
}

func newService(t *testing.T) (*Service, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	return New(repository.NewInMemory(), pub, logger.Nop()), pub
}

func TestCreateListUpdateDelete(t *testing.T) {
	svc, pub := newService(t)
	rs := svc.RecordService
	ctx := context.Background()

	created, err := rs.Create(ctx, "clientes", domain.Record{"nome": "Ana", "telefone": "111", "endereco": "Rua A", "extra": "x"})
	require.NoError(t, err)
	id := created.ID("id_cliente")
	assert.NotEmpty(t, id)
	assert.NotContains(t, created, "extra")

	list, err := rs.List(ctx, "clientes")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ana", list[0]["nome"])

	_, err = rs.Update(ctx, "clientes", id, domain.Record{"nome": "Ana", "telefone": "222", "endereco": "Rua A"})
	require.NoError(t, err)
	got, err := rs.Get(ctx, "clientes", id)
	require.NoError(t, err)
	assert.Equal(t, "222", got["telefone"])
	assert.Equal(t, "Ana", got["nome"])

	require.NoError(t, rs.Delete(ctx, "clientes", id))
	assert.ErrorIs(t, rs.Delete(ctx, "clientes", id), domain.ErrNotFound)

	assert.Equal(t, []string{
		"resource.clientes.created",
		"resource.clientes.updated",
		"resource.clientes.deleted",
	}, pub.keys())
}

func TestValidation(t *testing.T) {
	svc, _ := newService(t)
	rs := svc.RecordService
	ctx := context.Background()

	_, err := rs.Create(ctx, "clientes", domain.Record{"nome": "Ana"})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	assert.Contains(t, err.Error(), "Telefone")

	_, err = rs.Create(ctx, "pratos", domain.Record{"nome": "Feijoada", "descricao": "x", "preco": "caro"})
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	_, err = rs.List(ctx, "mesas")
	assert.ErrorIs(t, err, domain.ErrUnknownResource)

	p, err := rs.Create(ctx, "pratos", domain.Record{"nome": "Feijoada", "descricao": "x", "preco": json.Number("42.50")})
	require.NoError(t, err)
	assert.Equal(t, json.Number("42.5"), p["preco"])
}

func TestPasswordsAreHashedAndHidden(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	u, err := svc.RecordService.Create(ctx, "usuarios", domain.Record{
		"nome": "Ana", "email": "ana@example.com", "senha": "s3cret", "acesso_dashboard": true,
	})
	require.NoError(t, err)
	assert.NotContains(t, u, "senha")
	assert.Equal(t, true, u["acesso_dashboard"])
	id := u.ID("id")

	res, err := svc.AuthService.Login(ctx, domain.LoginRequest{Login: "ana@example.com", Senha: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, true, res["autorizado"])
	assert.Equal(t, id, res.ID("id"))
	assert.NotContains(t, res, "senha")

	// blank password on update keeps the old one
	_, err = svc.RecordService.Update(ctx, "usuarios", id, domain.Record{"nome": "Ana Maria", "email": "ana@example.com", "senha": ""})
	require.NoError(t, err)
	_, err = svc.AuthService.Login(ctx, domain.LoginRequest{Login: "ana@example.com", Senha: "s3cret"})
	require.NoError(t, err)

	_, err = svc.RecordService.Update(ctx, "usuarios", id, domain.Record{"nome": "Ana", "email": "ana@example.com", "senha": "nova"})
	require.NoError(t, err)
	_, err = svc.AuthService.Login(ctx, domain.LoginRequest{Login: "ana@example.com", Senha: "s3cret"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = svc.AuthService.Login(ctx, domain.LoginRequest{Login: "ana@example.com", Senha: "nova"})
	assert.NoError(t, err)
}

func TestLoginRejections(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.AuthService.SeedAdmin(ctx, "admin@example.com", "admin"))
	require.NoError(t, svc.AuthService.SeedAdmin(ctx, "admin@example.com", "other"))

	for _, req := range []domain.LoginRequest{
		{Login: "", Senha: "admin"},
		{Login: "admin@example.com", Senha: ""},
		{Login: "admin@example.com", Senha: "wrong"},
		{Login: "nobody@example.com", Senha: "admin"},
	} {
		_, err := svc.AuthService.Login(ctx, req)
		assert.ErrorIs(t, err, domain.ErrUnauthorized, req.Login)
	}

	res, err := svc.AuthService.Login(ctx, domain.LoginRequest{Login: "admin@example.com", Senha: "admin"})
	require.NoError(t, err)
	assert.Equal(t, true, res["acesso_estoque"])
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	svc, pub := newService(t)
	pub.err = errors.New("broker down")

	_, err := svc.RecordService.Create(context.Background(), "entregas", domain.Record{
		"destinatario": "Ana", "endereco": "Rua A", "data": "2024-05-01",
	})
	require.NoError(t, err)
	assert.Len(t, pub.keys(), 1)
}

func TestHistoryIsNotAnnounced(t *testing.T) {
	svc, pub := newService(t)
	_, err := svc.RecordService.Create(context.Background(), "historico", domain.Record{"recurso": "clientes", "acao": "created"})
	require.NoError(t, err)
	assert.Empty(t, pub.keys())
}

func TestOrderReferences(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	o, err := svc.RecordService.Create(ctx, "pedidos", domain.Record{
		"cliente_id_cliente": "3", "pratos_id_prato": json.Number("2"), "usuarios_id_usuario": "1",
		"data_pedido": "2024-05-01T12:00", "tempo_estimado": "30",
	})
	require.NoError(t, err)
	assert.Equal(t, json.Number("3"), o["cliente_id_cliente"])
	assert.Nil(t, o["entregador_id_entregador"])

	_, err = svc.RecordService.Create(ctx, "pedidos", domain.Record{
		"cliente_id_cliente": "1.5", "pratos_id_prato": "2",
		"data_pedido": "2024-05-01T12:00", "tempo_estimado": "30",
	})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}
