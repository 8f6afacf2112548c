package analytics

import (
	"sort"

	"slapulse/pkg/contracts/domain"
)

// Zones builds per-zone and per-CEP aggregates, both ordered by delay count.
func (e *Engine) Zones(records []domain.PackageRecord) (*domain.ZonesData, bool) {
	if len(records) == 0 {
		return nil, false
	}

	zoneStats := statsBy(records, zoneKey)
	sortByDelays(zoneStats)
	zones := make([]domain.ZoneMetrics, len(zoneStats))
	for i, s := range zoneStats {
		zones[i] = domain.ZoneMetrics{
			ID:            e.newID(),
			Zone:          s.key,
			TotalPackages: s.total,
			TotalDelays:   s.delays,
			WithinSla:     s.withinSla,
			OutsideSla:    s.total - s.withinSla,
			SlaPercentage: s.slaPercentage(),
			AverageDelay:  s.averageDelay(),
		}
	}

	cepStats := statsBy(records, cepKey)
	sortByDelays(cepStats)
	if len(cepStats) > cepListSize {
		cepStats = cepStats[:cepListSize]
	}
	ceps := make([]domain.CepMetrics, len(cepStats))
	for i, s := range cepStats {
		ceps[i] = domain.CepMetrics{
			ID:            e.newID(),
			CEP:           s.key,
			TotalPackages: s.total,
			TotalDelays:   s.delays,
			WithinSla:     s.withinSla,
			OutsideSla:    s.total - s.withinSla,
			SlaPercentage: s.slaPercentage(),
			AverageDelay:  s.averageDelay(),
		}
	}

	zoneChart := make([]domain.BarChartData, 0, zoneChartSize)
	for i := 0; i < len(zones) && i < zoneChartSize; i++ {
		zoneChart = append(zoneChart, domain.BarChartData{Label: zones[i].Zone, Value: float64(zones[i].TotalDelays)})
	}
	cepChart := make([]domain.BarChartData, 0, zoneChartSize)
	for i := 0; i < len(ceps) && i < zoneChartSize; i++ {
		cepChart = append(cepChart, domain.BarChartData{Label: ceps[i].CEP, Value: float64(ceps[i].TotalDelays)})
	}

	return &domain.ZonesData{
		Zones:           zones,
		Ceps:            ceps,
		ZoneDelaysChart: zoneChart,
		CepDelaysChart:  cepChart,
	}, true
}

func sortByDelays(stats []keyedStats) {
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].delays > stats[j].delays
	})
}
