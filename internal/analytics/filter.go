package analytics

import (
	"slapulse/pkg/contracts/domain"
)

// Filter returns the records matching every criterion that is set. Dates are
// compared lexically as YYYY-MM-DD and both bounds are inclusive. A record
// lacking the filtered field never matches. The input is not modified and the
// result is always a fresh slice.
func Filter(records []domain.PackageRecord, c domain.FilterCriteria) []domain.PackageRecord {
	if c.IsEmpty() {
		return append(make([]domain.PackageRecord, 0, len(records)), records...)
	}

	out := make([]domain.PackageRecord, 0, len(records))
	for i := range records {
		if matches(&records[i], c) {
			out = append(out, records[i])
		}
	}
	return out
}

func matches(r *domain.PackageRecord, c domain.FilterCriteria) bool {
	if c.StartDate != "" && (r.DataPedido == "" || r.DataPedido < c.StartDate) {
		return false
	}
	if c.EndDate != "" && (r.DataPedido == "" || r.DataPedido > c.EndDate) {
		return false
	}
	if c.Zone != "" && r.Zona != c.Zone {
		return false
	}
	if c.Seller != "" && r.Vendedor != c.Seller {
		return false
	}
	if c.CostCenter != "" && r.CentroDeCusto != c.CostCenter {
		return false
	}
	return true
}
