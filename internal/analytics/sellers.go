package analytics

import (
	"sort"

	"slapulse/pkg/contracts/domain"
)

// Sellers ranks sellers by package volume.
func (e *Engine) Sellers(records []domain.PackageRecord) (*domain.SellersData, bool) {
	if len(records) == 0 {
		return nil, false
	}

	stats := statsBy(records, sellerKey)
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].total > stats[j].total
	})

	sellers := make([]domain.SellerMetrics, len(stats))
	for i, s := range stats {
		sellers[i] = domain.SellerMetrics{
			ID:            e.newID(),
			Name:          s.key,
			TotalPackages: s.total,
			TotalDelays:   s.delays,
			WithinSla:     s.withinSla,
			OutsideSla:    s.total - s.withinSla,
			SlaPercentage: s.slaPercentage(),
			AverageDelay:  s.averageDelay(),
			Rank:          i + 1,
		}
	}

	top := sellers
	if len(top) > sellerChartSize {
		top = top[:sellerChartSize]
	}
	volumeChart := make([]domain.BarChartData, len(top))
	slaChart := make([]domain.BarChartData, len(top))
	for i, s := range top {
		volumeChart[i] = domain.BarChartData{Label: s.Name, Value: float64(s.TotalPackages)}
		// Kept in volume order, not re-sorted by SLA
		slaChart[i] = domain.BarChartData{Label: s.Name, Value: s.SlaPercentage}
	}

	byDelays := make([]domain.SellerMetrics, len(sellers))
	copy(byDelays, sellers)
	sort.SliceStable(byDelays, func(i, j int) bool {
		return byDelays[i].TotalDelays > byDelays[j].TotalDelays
	})
	if len(byDelays) > sellerChartSize {
		byDelays = byDelays[:sellerChartSize]
	}
	delaysChart := make([]domain.BarChartData, len(byDelays))
	for i, s := range byDelays {
		delaysChart[i] = domain.BarChartData{Label: s.Name, Value: float64(s.TotalDelays)}
	}

	return &domain.SellersData{
		Sellers:     sellers,
		VolumeChart: volumeChart,
		DelaysChart: delaysChart,
		SlaChart:    slaChart,
	}, true
}
