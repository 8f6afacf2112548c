package analytics

import (
	"slapulse/pkg/contracts/domain"
)

// Rankings builds the ranking lists. Entries carry no percentage.
func (e *Engine) Rankings(records []domain.PackageRecord) (*domain.RankingsData, bool) {
	if len(records) == 0 {
		return nil, false
	}

	delayed := (*domain.PackageRecord).HasDelay
	return &domain.RankingsData{
		SellersByDelays: TopN(CountBy(records, sellerKey, delayed), rankSellersDelays),
		ZonesByDelays:   TopN(CountBy(records, zoneKey, delayed), rankZonesDelays),
		SellersByVolume: TopN(CountBy(records, sellerKey, nil), rankSellersVolume),
	}, true
}
