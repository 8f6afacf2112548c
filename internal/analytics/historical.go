package analytics

import (
	"slapulse/pkg/contracts/domain"
)

// Historical compares the second half of the distinct order dates against
// the first half. mode is echoed back; the split is always by date count.
func (e *Engine) Historical(records []domain.PackageRecord, mode string) (*domain.HistoricalData, bool) {
	if len(records) == 0 {
		return nil, false
	}
	if mode == "" {
		mode = defaultHistoryMode
	}

	perDate := make(map[string]slaStats)
	for _, s := range statsBy(records, orderDateKey) {
		perDate[s.key] = s.slaStats
	}
	byDate := GroupBy(records, orderDateKey)
	dates := byDate.SortedKeys()

	midpoint := len(dates) / 2
	previous := sumPeriod(perDate, dates[:midpoint])
	current := sumPeriod(perDate, dates[midpoint:])

	change := 0.0
	if prev := previous.WithinSlaPercentage; prev > 0 {
		change = (current.WithinSlaPercentage - prev) / prev * 100
	}

	delayTrend := make([]domain.LineChartData, 0, len(dates))
	for _, d := range dates {
		delayTrend = append(delayTrend, domain.LineChartData{Date: d, Value: float64(perDate[d].delays)})
	}

	return &domain.HistoricalData{
		Mode:         mode,
		SlaEvolution: e.slaTrend(byDate),
		DelayTrend:   delayTrend,
		PeriodComparison: domain.PeriodComparison{
			Current:          current,
			Previous:         previous,
			PercentageChange: change,
		},
		SellerPerformance: sellerPerformance(records),
	}, true
}

func sumPeriod(perDate map[string]slaStats, dates []string) domain.SlaMetrics {
	var sum slaStats
	for _, d := range dates {
		s := perDate[d]
		sum.total += s.total
		sum.withinSla += s.withinSla
		sum.delays += s.delays
	}
	return periodMetrics(sum)
}

// sellerPerformance is the per-date SLA series of the first sellers seen.
func sellerPerformance(records []domain.PackageRecord) []domain.SellerPerformance {
	bySeller := GroupBy(records, sellerKey)
	keys := bySeller.Keys()
	if len(keys) > historicalSellers {
		keys = keys[:historicalSellers]
	}

	out := make([]domain.SellerPerformance, 0, len(keys))
	for _, seller := range keys {
		byDate := GroupBy(bySeller.Get(seller), orderDateKey)
		dates := byDate.SortedKeys()
		periods := make([]domain.PeriodPerformance, 0, len(dates))
		for _, d := range dates {
			group := byDate.Get(d)
			periods = append(periods, domain.PeriodPerformance{
				Period:        d,
				SlaPercentage: Percentage(CountWhere(group, (*domain.PackageRecord).WithinSLA), len(group)),
			})
		}
		out = append(out, domain.SellerPerformance{Seller: seller, Periods: periods})
	}
	return out
}
