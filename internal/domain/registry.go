package domain

var (
	Pedidos = Schema{
		Name: "pedidos", Title: "Pedidos", Singular: "pedido",
		IDField: "id_pedido", LabelField: "data_pedido",
		Fields: []Field{
			{Name: "cliente_id_cliente", Label: "Cliente", Kind: KindRef, Ref: "clientes", Required: true},
			{Name: "entregador_id_entregador", Label: "Entregador", Kind: KindRef, Ref: "entregadores"},
			{Name: "usuarios_id_usuario", Label: "Usuário", Kind: KindRef, Ref: "usuarios", FromSession: true},
			{Name: "pratos_id_prato", Label: "Prato", Kind: KindRef, Ref: "pratos", Required: true},
			{Name: "data_pedido", Label: "Data do Pedido", Kind: KindDateTime, Required: true},
			{Name: "tempo_estimado", Label: "Tempo Estimado (minutos)", Kind: KindNumber, Required: true},
		},
	}
	Entregas = Schema{
		Name: "entregas", Title: "Entrega", Singular: "entrega",
		IDField: "id_entrega", LabelField: "destinatario",
		Fields: []Field{
			{Name: "destinatario", Label: "Destinatário", Kind: KindText, Required: true},
			{Name: "endereco", Label: "Endereço", Kind: KindText, Required: true},
			{Name: "data", Label: "Data", Kind: KindDateTime, Required: true},
		},
	}
	Pratos = Schema{
		Name: "pratos", Title: "Pratos", Singular: "prato",
		IDField: "id_prato", LabelField: "nome",
		Fields: []Field{
			{Name: "nome", Label: "Nome", Kind: KindText, Required: true},
			{Name: "descricao", Label: "Descrição", Kind: KindText, Required: true},
			{Name: "preco", Label: "Preço", Kind: KindNumber, Required: true},
		},
	}
	Estoque = Schema{
		Name: "estoque", Title: "Estoque", Singular: "item de estoque",
		IDField: "id_estoque", LabelField: "medida",
		Fields: []Field{
			{Name: "ingrediente_Id_ingrediente", Label: "Ingrediente", Kind: KindRef, Ref: "ingredientes", Required: true},
			{Name: "quantidade", Label: "Quantidade", Kind: KindNumber, Required: true},
			{Name: "medida", Label: "Medida", Kind: KindText, Required: true},
			{Name: "quantidade_minima", Label: "Quantidade Mínima", Kind: KindNumber, Required: true},
		},
	}
	Ingredientes = Schema{
		Name: "ingredientes", Title: "Ingredientes", Singular: "ingrediente",
		IDField: "id_ingrediente", LabelField: "nome",
		Fields: []Field{
			{Name: "nome", Label: "Nome", Kind: KindText, Required: true},
			{Name: "quantidade", Label: "Quantidade", Kind: KindNumber, Required: true},
			{Name: "unidade", Label: "Unidade", Kind: KindText, Required: true},
		},
	}
	Clientes = Schema{
		Name: "clientes", Title: "Clientes", Singular: "cliente",
		IDField: "id_cliente", LabelField: "nome",
		Fields: []Field{
			{Name: "nome", Label: "Nome", Kind: KindText, Required: true},
			{Name: "telefone", Label: "Telefone", Kind: KindText, Required: true},
			{Name: "endereco", Label: "Endereço", Kind: KindText, Required: true},
		},
	}
	Usuarios = Schema{
		Name: "usuarios", Title: "Usuarios", Singular: "usuário",
		IDField: "id", LabelField: "nome",
		Fields: []Field{
			{Name: "nome", Label: "Nome", Kind: KindText, Required: true},
			{Name: "email", Label: "Email", Kind: KindText, Required: true},
			{Name: "senha", Label: "Senha", Kind: KindPassword},
			{Name: "acesso_criar_usuario", Label: "Acesso: Criar Usuário", Kind: KindBool},
			{Name: "acesso_dashboard", Label: "Acesso: Dashboard", Kind: KindBool},
			{Name: "acesso_criar_pedido", Label: "Acesso: Criar Pedido", Kind: KindBool},
			{Name: "acesso_estoque", Label: "Acesso: Estoque", Kind: KindBool},
		},
	}
	Entregadores = Schema{
		Name: "entregadores", Title: "Entregadores", Singular: "entregador",
		IDField: "id", LabelField: "nome",
		Fields: []Field{
			{Name: "nome", Label: "Nome", Kind: KindText, Required: true},
			{Name: "senha", Label: "Senha", Kind: KindPassword},
			{Name: "telefone", Label: "Telefone", Kind: KindText, Required: true},
			{Name: "veiculo", Label: "Veículo", Kind: KindText, Required: true},
			{Name: "placa", Label: "Placa", Kind: KindText, Required: true},
		},
	}
	Historico = Schema{
		Name: "historico", Title: "Historico", Singular: "registro de histórico",
		IDField: "id_historico", LabelField: "acao",
		Fields: []Field{
			{Name: "recurso", Label: "Recurso", Kind: KindText, Required: true},
			{Name: "acao", Label: "Ação", Kind: KindText, Required: true},
			{Name: "registro_id", Label: "Registro", Kind: KindText},
			{Name: "data", Label: "Data", Kind: KindDateTime},
		},
	}
)

// Schemas returns every resource in side-menu order.
func Schemas() []Schema {
	return []Schema{Pedidos, Entregas, Pratos, Estoque, Ingredientes, Clientes, Usuarios, Entregadores, Historico}
}

func LookupSchema(name string) (Schema, bool) {
	for _, s := range Schemas() {
		if s.Name == name {
			return s, true
		}
	}
	return Schema{}, false
}
