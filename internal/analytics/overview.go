package analytics

import (
	"slapulse/pkg/contracts/domain"
)

// Overview builds the landing view over the full snapshot.
func (e *Engine) Overview(records []domain.PackageRecord) (*domain.OverviewData, bool) {
	if len(records) == 0 {
		return nil, false
	}

	metrics := ComputeSlaMetrics(records)

	byDate := GroupBy(records, orderDateKey)
	dates := lastN(byDate.SortedKeys(), overviewDays)
	slaByPeriod := make([]domain.BarChartData, 0, len(dates))
	for _, d := range dates {
		group := byDate.Get(d)
		within := CountWhere(group, (*domain.PackageRecord).WithinSLA)
		slaByPeriod = append(slaByPeriod, domain.BarChartData{
			Label: dayLabel(d),
			Value: Percentage(within, len(group)),
		})
	}

	delayed := (*domain.PackageRecord).HasDelay
	return &domain.OverviewData{
		Metrics:            metrics,
		SlaByPeriod:        slaByPeriod,
		TopDelayedSellers:  withShare(TopN(CountBy(records, sellerKey, delayed), overviewTopN), metrics.TotalDelays),
		TopCriticalZones:   withShare(TopN(CountBy(records, zoneKey, delayed), overviewTopN), metrics.TotalDelays),
		TopProblematicCeps: withShare(TopN(CountBy(records, cepKey, delayed), overviewTopN), metrics.TotalDelays),
	}, true
}
