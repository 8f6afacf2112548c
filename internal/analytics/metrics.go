package analytics

import (
	"slapulse/pkg/contracts/domain"
)

// ComputeSlaMetrics aggregates a record set into SlaMetrics.
func ComputeSlaMetrics(records []domain.PackageRecord) domain.SlaMetrics {
	total := len(records)
	within := CountWhere(records, (*domain.PackageRecord).WithinSLA)

	return domain.SlaMetrics{
		TotalPackages:        total,
		WithinSla:            within,
		OutsideSla:           total - within,
		WithinSlaPercentage:  Percentage(within, total),
		OutsideSlaPercentage: Percentage(total-within, total),
		TotalDelays:          CountWhere(records, (*domain.PackageRecord).HasDelay),
		TotalSellers:         GroupBy(records, sellerKey).Len(),
		TotalZones:           GroupBy(records, zoneKey).Len(),
		AverageDelay:         AverageDelay(records),
		MaxDelay:             MaxDelay(records),
	}
}

// slaStats accumulates the per-key counters shared by the seller, zone, CEP
// and historical aggregates.
type slaStats struct {
	total      int
	withinSla  int
	delays     int
	totalDelay int
}

func (s *slaStats) add(r *domain.PackageRecord) {
	s.total++
	if r.WithinSLA() {
		s.withinSla++
	}
	if r.HasDelay() {
		s.delays++
		s.totalDelay += *r.Atraso
	}
}

func (s slaStats) slaPercentage() float64 {
	return Percentage(s.withinSla, s.total)
}

func (s slaStats) averageDelay() float64 {
	if s.delays == 0 {
		return 0
	}
	return float64(s.totalDelay) / float64(s.delays)
}

// keyedStats is slaStats for one group key
type keyedStats struct {
	key string
	slaStats
}

// statsBy aggregates records per non-empty key in first-occurrence order.
func statsBy(records []domain.PackageRecord, key func(*domain.PackageRecord) string) []keyedStats {
	groups := GroupBy(records, key)
	out := make([]keyedStats, 0, groups.Len())
	for _, k := range groups.Keys() {
		ks := keyedStats{key: k}
		items := groups.Get(k)
		for i := range items {
			ks.add(&items[i])
		}
		out = append(out, ks)
	}
	return out
}

// periodMetrics fills the SlaMetrics shape from summed per-date counters.
// Seller, zone and delay-size figures are not tracked per period and stay 0.
func periodMetrics(s slaStats) domain.SlaMetrics {
	return domain.SlaMetrics{
		TotalPackages:        s.total,
		WithinSla:            s.withinSla,
		OutsideSla:           s.total - s.withinSla,
		WithinSlaPercentage:  Percentage(s.withinSla, s.total),
		OutsideSlaPercentage: Percentage(s.total-s.withinSla, s.total),
		TotalDelays:          s.delays,
	}
}
