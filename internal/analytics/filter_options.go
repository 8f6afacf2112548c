package analytics

import (
	"sort"

	"slapulse/pkg/contracts/domain"
)

// FilterOptions lists the distinct non-empty zones, sellers and cost centers,
// sorted, plus the order date range when any record has an order date.
func FilterOptions(records []domain.PackageRecord) domain.FilterOptions {
	opts := domain.FilterOptions{
		Zones:       distinctSorted(records, zoneKey),
		Sellers:     distinctSorted(records, sellerKey),
		CostCenters: distinctSorted(records, costCenterKey),
	}

	var min, max string
	for i := range records {
		d := records[i].DataPedido
		if d == "" {
			continue
		}
		if min == "" || d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	if min != "" {
		opts.DateRange = &domain.DateRange{Min: min, Max: max}
	}
	return opts
}

func distinctSorted(records []domain.PackageRecord, key func(*domain.PackageRecord) string) []string {
	keys := append([]string{}, GroupBy(records, key).Keys()...)
	sort.Strings(keys)
	return keys
}
