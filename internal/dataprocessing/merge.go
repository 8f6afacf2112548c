package dataprocessing

import (
	"github.com/google/uuid"

	"slapulse/pkg/contracts/domain"
)

// Merge left-joins logmanager orders with gestora packages on
// Pedido = pedido_marketplace. An order matching several packages yields one
// record per package; an order matching none is kept with source logmanager.
// Every record gets a fresh id and its SLA classification. Inputs are not modified.
func Merge(logmanager, gestora []domain.PackageRecord, newID func() string) []domain.PackageRecord {
	if newID == nil {
		newID = uuid.NewString
	}

	byOrder := make(map[string][]int, len(gestora))
	for i := range gestora {
		key := gestora[i].PedidoMarketplace
		byOrder[key] = append(byOrder[key], i)
	}

	merged := make([]domain.PackageRecord, 0, len(logmanager))
	for i := range logmanager {
		order := logmanager[i]
		matches := byOrder[order.Pedido]
		if len(matches) == 0 {
			rec := order
			rec.ID = newID()
			rec.Source = domain.SourceLogmanager
			rec.SLA, rec.Atraso = ClassifySLA(rec.PrevisaoEntrega, rec.Entrega)
			merged = append(merged, rec)
			continue
		}
		for _, gi := range matches {
			rec := join(order, gestora[gi])
			rec.ID = newID()
			merged = append(merged, rec)
		}
	}
	return merged
}

// join copies the gestora package columns onto the logmanager order.
func join(order, pkg domain.PackageRecord) domain.PackageRecord {
	rec := order
	rec.Bipagem = pkg.Bipagem
	rec.Criacao = pkg.Criacao
	rec.DeveriaSerEntregue = pkg.DeveriaSerEntregue
	rec.Pacote = pkg.Pacote
	rec.Etiqueta = pkg.Etiqueta
	rec.PedidoMarketplace = pkg.PedidoMarketplace
	rec.Frete = pkg.Frete
	rec.Vendedor = pkg.Vendedor
	rec.CentroDeCusto = pkg.CentroDeCusto
	rec.StatusDiaGestora = pkg.StatusDiaGestora
	rec.NomeComprador = pkg.NomeComprador
	rec.CEP = pkg.CEP
	rec.Logradouro = pkg.Logradouro
	rec.Numero = pkg.Numero
	rec.Bairro = pkg.Bairro
	rec.Cidade = pkg.Cidade
	rec.Complemento = pkg.Complemento
	rec.DataStatusDia = pkg.DataStatusDia
	rec.PrevisaoEntrega = pkg.PrevisaoEntrega
	rec.Entrega = pkg.Entrega
	rec.Prazo = pkg.Prazo
	rec.Source = domain.SourceMerged
	rec.SLA, rec.Atraso = ClassifySLA(rec.PrevisaoEntrega, rec.Entrega)
	return rec
}
