package shell

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-admin/internal/controller"
	"restaurant-admin/internal/domain"
	"restaurant-admin/internal/session"
)

type countingResources struct {
	lists map[string]int
}

func (c *countingResources) List(_ context.Context, resource string) ([]domain.Record, error) {
	c.lists[resource]++
	return nil, nil
}
func (c *countingResources) Get(context.Context, string, string) (domain.Record, error) {
	return domain.Record{}, nil
}
func (c *countingResources) Create(_ context.Context, _ string, d domain.Record) (domain.Record, error) {
	return d, nil
}
func (c *countingResources) Update(_ context.Context, _, _ string, d domain.Record) (domain.Record, error) {
	return d, nil
}
func (c *countingResources) Remove(context.Context, string, string) error { return nil }

func TestMenuOrder(t *testing.T) {
	s := New(&countingResources{lists: map[string]int{}}, session.New())

	var keys []string
	var divider string
	for _, m := range s.Menu() {
		keys = append(keys, m.Key)
		if m.Divider {
			divider = m.Key
		}
	}
	assert.Equal(t, []string{"home", "pedidos", "entregas", "pratos", "estoque", "ingredientes", "clientes", "usuarios", "entregadores", "historico"}, keys)
	assert.Equal(t, "usuarios", divider)
}

func TestSelectMountsPage(t *testing.T) {
	res := &countingResources{lists: map[string]int{}}
	s := New(res, session.New())
	ctx := context.Background()
	assert.Equal(t, Home, s.Current())

	c, err := s.Select(ctx, "clientes")
	require.NoError(t, err)
	assert.Equal(t, "clientes", s.Current())
	assert.Equal(t, "clientes", c.Schema().Name)
	assert.Equal(t, controller.Ready, c.View().Phase)
	assert.Equal(t, 1, res.lists["clientes"])

	_, err = s.Select(ctx, "mesas")
	assert.ErrorIs(t, err, ErrUnknownPage)
	assert.Equal(t, "clientes", s.Current())

	c, err = s.Select(ctx, Home)
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Equal(t, Home, s.Current())
}

func TestGate(t *testing.T) {
	sess := session.New()
	s := New(&countingResources{lists: map[string]int{}}, sess)
	assert.False(t, s.SignedIn())
	require.NoError(t, sess.SignIn("1"))
	assert.True(t, s.SignedIn())
}
