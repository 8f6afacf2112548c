package analytics

import (
	"slapulse/pkg/contracts/domain"
)

// Delays builds the delay analysis over records with a positive delay.
func (e *Engine) Delays(records []domain.PackageRecord) (*domain.DelaysData, bool) {
	if len(records) == 0 {
		return nil, false
	}

	delayed := make([]domain.PackageRecord, 0)
	for i := range records {
		if records[i].HasDelay() {
			delayed = append(delayed, records[i])
		}
	}

	byDate := GroupBy(delayed, orderDateKey)
	dates := lastN(byDate.SortedKeys(), delaysDays)
	byDay := make([]domain.BarChartData, 0, len(dates))
	for _, d := range dates {
		byDay = append(byDay, domain.BarChartData{Label: dayLabel(d), Value: float64(len(byDate.Get(d)))})
	}

	return &domain.DelaysData{
		Metrics: domain.DelayMetrics{
			TotalDelays:  len(delayed),
			AverageDelay: AverageDelay(delayed),
			MaxDelay:     MaxDelay(delayed),
		},
		DelaysByDay:    byDay,
		DelaysByZone:   barsFromCounts(CountBy(delayed, zoneKey, nil), delaysTopN),
		DelaysByCep:    barsFromCounts(CountBy(delayed, cepKey, nil), delaysTopN),
		DelaysBySeller: barsFromCounts(CountBy(delayed, sellerKey, nil), delaysTopN),
	}, true
}
