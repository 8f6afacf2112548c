package dataprocessing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slapulse/pkg/contracts/domain"
)

func counter() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("rec-%d", n)
	}
}

func TestMerge(t *testing.T) {
	orders := []domain.PackageRecord{
		{Pedido: "1001", DataPedido: "2024-01-02", Zona: "Norte", Source: domain.SourceLogmanager},
		{Pedido: "1002", DataPedido: "2024-01-02", Zona: "Sul", Source: domain.SourceLogmanager},
		{Pedido: "1003", DataPedido: "2024-01-03", Zona: "Leste", Source: domain.SourceLogmanager},
	}
	packages := []domain.PackageRecord{
		{PedidoMarketplace: "1001", Pacote: "PK-1", Vendedor: "Loja Meli", PrevisaoEntrega: "2024-01-05", Entrega: "2024-01-05", Prazo: 3, Source: domain.SourceGestora},
		{PedidoMarketplace: "1002", Pacote: "PK-2", Vendedor: "Outra Meli", PrevisaoEntrega: "2024-01-05", Entrega: "2024-01-09", Source: domain.SourceGestora},
		{PedidoMarketplace: "1001", Pacote: "PK-3", Vendedor: "Loja Meli", PrevisaoEntrega: "2024-01-05", Source: domain.SourceGestora},
		{PedidoMarketplace: "9999", Pacote: "PK-orphan", Source: domain.SourceGestora},
	}

	merged := Merge(orders, packages, counter())
	require.Len(t, merged, 4)

	first := merged[0]
	assert.Equal(t, "rec-1", first.ID)
	assert.Equal(t, "1001", first.Pedido)
	assert.Equal(t, "PK-1", first.Pacote)
	assert.Equal(t, "Norte", first.Zona)
	assert.Equal(t, 3, first.Prazo)
	assert.Equal(t, domain.SourceMerged, first.Source)
	assert.Equal(t, domain.SLAWithinDeadline, first.SLA)
	assert.Equal(t, 0, first.Delay())

	second := merged[1]
	assert.Equal(t, "PK-3", second.Pacote)
	assert.Equal(t, domain.SLANotDelivered, second.SLA)
	assert.Nil(t, second.Atraso)

	third := merged[2]
	assert.Equal(t, "1002", third.Pedido)
	assert.Equal(t, domain.SLALate, third.SLA)
	assert.Equal(t, 4, third.Delay())

	orphan := merged[3]
	assert.Equal(t, "1003", orphan.Pedido)
	assert.Equal(t, domain.SourceLogmanager, orphan.Source)
	assert.Equal(t, domain.SLANotDelivered, orphan.SLA)
	assert.Empty(t, orphan.Vendedor)

	assert.Empty(t, orders[0].ID, "inputs are not modified")
	assert.Empty(t, packages[0].SLA)
}

func TestMergeDefaultIDs(t *testing.T) {
	merged := Merge([]domain.PackageRecord{{Pedido: "1"}, {Pedido: "2"}}, nil, nil)
	require.Len(t, merged, 2)
	assert.Len(t, merged[0].ID, 36)
	assert.NotEqual(t, merged[0].ID, merged[1].ID)
}

func TestMergeEmpty(t *testing.T) {
	merged := Merge(nil, []domain.PackageRecord{{PedidoMarketplace: "1"}}, counter())
	assert.NotNil(t, merged)
	assert.Empty(t, merged)
}
