package analytics

import (
	"fmt"

	"slapulse/pkg/contracts/domain"
)

// rec builds a record. delay < 0 means undefined.
func rec(date, seller, zone, cep string, sla domain.SLAStatus, delay int) domain.PackageRecord {
	r := domain.PackageRecord{
		ID:         fmt.Sprintf("%s-%s-%s-%d", date, seller, zone, delay),
		DataPedido: date,
		Pedido:     "P" + date,
		Vendedor:   seller,
		Zona:       zone,
		CEP:        cep,
		SLA:        sla,
		Source:     domain.SourceMerged,
	}
	if delay >= 0 {
		r.Atraso = domain.IntPtr(delay)
	}
	if sla != domain.SLANotDelivered {
		r.Entrega = date
	}
	return r
}

func within(date, seller, zone, cep string) domain.PackageRecord {
	return rec(date, seller, zone, cep, domain.SLAWithinDeadline, 0)
}

func late(date, seller, zone, cep string, delay int) domain.PackageRecord {
	status := domain.SLAOutsideDeadline
	if delay > 2 {
		status = domain.SLALate
	}
	return rec(date, seller, zone, cep, status, delay)
}

func pending(date, seller, zone, cep string) domain.PackageRecord {
	return rec(date, seller, zone, cep, domain.SLANotDelivered, -1)
}

// sampleRecords is a small snapshot exercising every view:
//
//	2024-01-01: A/Norte within, A/Norte late 3, B/Sul late 1
//	2024-01-02: B/Sul within, C/Norte late 5, A/"" pending
//	2024-01-03: C/Leste within, ""/Sul late 2
//	no date:    B/Norte within
func sampleRecords() []domain.PackageRecord {
	return []domain.PackageRecord{
		within("2024-01-01", "Loja A", "Norte", "01000000"),
		late("2024-01-01", "Loja A", "Norte", "01000000", 3),
		late("2024-01-01", "Loja B", "Sul", "02000000", 1),
		within("2024-01-02", "Loja B", "Sul", "02000000"),
		late("2024-01-02", "Loja C", "Norte", "03000000", 5),
		pending("2024-01-02", "Loja A", "", ""),
		within("2024-01-03", "Loja C", "Leste", "04000000"),
		late("2024-01-03", "", "Sul", "02000000", 2),
		within("", "Loja B", "Norte", "01000000"),
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestEngine() *Engine {
	return NewEngine(WithIDGenerator(sequentialIDs()))
}
