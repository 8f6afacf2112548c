package analytics

import (
	"slapulse/pkg/contracts/domain"
)

// SlaPerformance builds the drill-down view. It reports no data only when the
// unfiltered snapshot is empty; criteria matching nothing give an empty trend.
func (e *Engine) SlaPerformance(records []domain.PackageRecord, criteria domain.FilterCriteria) (*domain.SlaPerformanceData, bool) {
	if len(records) == 0 {
		return nil, false
	}

	filtered := Filter(records, criteria)
	return &domain.SlaPerformanceData{
		SlaTrend:     e.slaTrend(GroupBy(filtered, orderDateKey)),
		Records:      filtered,
		TotalRecords: len(filtered),
	}, true
}

// slaTrend is the SLA % per date, ascending, each point carrying the target.
func (e *Engine) slaTrend(byDate *Groups[domain.PackageRecord]) []domain.LineChartData {
	dates := byDate.SortedKeys()
	trend := make([]domain.LineChartData, 0, len(dates))
	for _, d := range dates {
		group := byDate.Get(d)
		trend = append(trend, domain.LineChartData{
			Date:   d,
			Value:  Percentage(CountWhere(group, (*domain.PackageRecord).WithinSLA), len(group)),
			Target: e.target(),
		})
	}
	return trend
}
