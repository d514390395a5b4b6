package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateFillsSessionFields(t *testing.T) {
	draft := Pedidos.Template("7")

	require.Len(t, draft, len(Pedidos.Fields))
	assert.Equal(t, "7", draft["usuarios_id_usuario"])
	assert.Equal(t, "", draft["cliente_id_cliente"])

	users := Usuarios.Template("7")
	assert.Equal(t, false, users["acesso_estoque"])
	assert.Equal(t, "", users["nome"])
}

func TestMissingRequiredFields(t *testing.T) {
	draft := Clientes.Template("")
	draft["nome"] = "Ana"
	draft["telefone"] = "   "

	assert.Equal(t, []string{"Telefone", "Endereço"}, Clientes.Missing(draft))

	draft["telefone"] = "111"
	draft["endereco"] = "Rua A"
	assert.Empty(t, Clientes.Missing(draft))
}

func TestMissingIgnoresBooleansAndOptional(t *testing.T) {
	draft := Usuarios.Template("")
	draft["nome"] = "Bia"
	draft["email"] = "bia@example.com"

	assert.Empty(t, Usuarios.Missing(draft))
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		raw   string
		want  any
	}{
		{"number", Field{Kind: KindNumber}, "12.5", json.Number("12.5")},
		{"number typo kept", Field{Kind: KindNumber}, "12,5", "12,5"},
		{"number empty", Field{Kind: KindNumber}, " ", ""},
		{"reference", Field{Kind: KindRef}, "3", json.Number("3")},
		{"checkbox on", Field{Kind: KindBool}, "on", true},
		{"checkbox missing", Field{Kind: KindBool}, "", false},
		{"text untouched", Field{Kind: KindText}, " Rua A ", " Rua A "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.field.Coerce(tt.raw))
		})
	}
}

func TestBodyDropsIDAndBlankPassword(t *testing.T) {
	draft := Record{
		"id":    json.Number("4"),
		"nome":  "Caio",
		"senha": "",
		"extra": "computed by server",
	}

	body := Entregadores.Body(draft)

	assert.NotContains(t, body, "id")
	assert.NotContains(t, body, "senha")
	assert.NotContains(t, body, "extra")
	assert.Equal(t, "Caio", body["nome"])
	assert.Equal(t, "", body["placa"])

	draft["senha"] = "s3cret"
	assert.Equal(t, "s3cret", Entregadores.Body(draft)["senha"])
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "10", FormatValue(json.Number("10")))
	assert.Equal(t, "2.5", FormatValue(2.5))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "x", Record{"id_cliente": "x"}.ID("id_cliente"))
}

func TestLookupSchema(t *testing.T) {
	for _, name := range []string{"usuarios", "ingredientes", "historico", "estoque", "pratos", "clientes", "entregadores", "entregas", "pedidos"} {
		s, ok := LookupSchema(name)
		require.True(t, ok, name)
		assert.NotEmpty(t, s.IDField)
		for _, f := range s.Fields {
			if f.Kind == KindRef {
				_, ok := LookupSchema(f.Ref)
				assert.True(t, ok, "%s.%s references %s", name, f.Name, f.Ref)
			}
		}
	}
	_, ok := LookupSchema("mesas")
	assert.False(t, ok)
}

func TestRoutingKey(t *testing.T) {
	ev := ResourceEvent{Resource: "clientes", Action: ActionDeleted}
	assert.Equal(t, "resource.clientes.deleted", ev.RoutingKey())
}
