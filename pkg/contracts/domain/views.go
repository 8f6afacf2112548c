package domain

// SlaMetrics aggregates counts, percentages and delay statistics over a record set
type SlaMetrics struct {
	TotalPackages        int     `json:"totalPackages"`
	WithinSla            int     `json:"withinSla"`
	OutsideSla           int     `json:"outsideSla"`
	WithinSlaPercentage  float64 `json:"withinSlaPercentage"`
	OutsideSlaPercentage float64 `json:"outsideSlaPercentage"`
	TotalDelays          int     `json:"totalDelays"`
	TotalSellers         int     `json:"totalSellers"`
	TotalZones           int     `json:"totalZones"`
	AverageDelay         float64 `json:"averageDelay"`
	MaxDelay             int     `json:"maxDelay"`
}

// SellerMetrics is the per-seller aggregate with its volume rank
type SellerMetrics struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	TotalPackages int     `json:"totalPackages"`
	TotalDelays   int     `json:"totalDelays"`
	WithinSla     int     `json:"withinSla"`
	OutsideSla    int     `json:"outsideSla"`
	SlaPercentage float64 `json:"slaPercentage"`
	AverageDelay  float64 `json:"averageDelay"`
	Rank          int     `json:"rank"`
}

// ZoneMetrics is the per-zone aggregate
type ZoneMetrics struct {
	ID            string  `json:"id"`
	Zone          string  `json:"zone"`
	TotalPackages int     `json:"totalPackages"`
	TotalDelays   int     `json:"totalDelays"`
	WithinSla     int     `json:"withinSla"`
	OutsideSla    int     `json:"outsideSla"`
	SlaPercentage float64 `json:"slaPercentage"`
	AverageDelay  float64 `json:"averageDelay"`
}

// CepMetrics is the per postal code aggregate
type CepMetrics struct {
	ID            string  `json:"id"`
	CEP           string  `json:"cep"`
	TotalPackages int     `json:"totalPackages"`
	TotalDelays   int     `json:"totalDelays"`
	WithinSla     int     `json:"withinSla"`
	OutsideSla    int     `json:"outsideSla"`
	SlaPercentage float64 `json:"slaPercentage"`
	AverageDelay  float64 `json:"averageDelay"`
}

// RankingEntry is one row of a ranking list. Percentage is nil when not reported.
type RankingEntry struct {
	Rank       int      `json:"rank"`
	Name       string   `json:"name"`
	Value      int      `json:"value"`
	Percentage *float64 `json:"percentage,omitempty"`
}

// BarChartData is one bar of a chart
type BarChartData struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color,omitempty"`
}

// LineChartData is one point of a time series
type LineChartData struct {
	Date   string   `json:"date"`
	Value  float64  `json:"value"`
	Target *float64 `json:"target,omitempty"`
}

// OverviewData is the dashboard landing view
type OverviewData struct {
	Metrics            SlaMetrics     `json:"metrics"`
	SlaByPeriod        []BarChartData `json:"slaByPeriod"`
	TopDelayedSellers  []RankingEntry `json:"topDelayedSellers"`
	TopCriticalZones   []RankingEntry `json:"topCriticalZones"`
	TopProblematicCeps []RankingEntry `json:"topProblematicCeps"`
}

// SlaPerformanceData is the filtered drill-down view
type SlaPerformanceData struct {
	SlaTrend     []LineChartData `json:"slaTrend"`
	Records      []PackageRecord `json:"records"`
	TotalRecords int             `json:"totalRecords"`
}

// DelayMetrics summarizes the delay-positive subset
type DelayMetrics struct {
	TotalDelays  int     `json:"totalDelays"`
	AverageDelay float64 `json:"averageDelay"`
	MaxDelay     int     `json:"maxDelay"`
}

// DelaysData is the delay analysis view
type DelaysData struct {
	Metrics        DelayMetrics   `json:"metrics"`
	DelaysByDay    []BarChartData `json:"delaysByDay"`
	DelaysByZone   []BarChartData `json:"delaysByZone"`
	DelaysByCep    []BarChartData `json:"delaysByCep"`
	DelaysBySeller []BarChartData `json:"delaysBySeller"`
}

// SellersData is the seller analysis view
type SellersData struct {
	Sellers     []SellerMetrics `json:"sellers"`
	VolumeChart []BarChartData  `json:"volumeChart"`
	DelaysChart []BarChartData  `json:"delaysChart"`
	SlaChart    []BarChartData  `json:"slaChart"`
}

// ZonesData is the zone and postal code analysis view
type ZonesData struct {
	Zones           []ZoneMetrics  `json:"zones"`
	Ceps            []CepMetrics   `json:"ceps"`
	ZoneDelaysChart []BarChartData `json:"zoneDelaysChart"`
	CepDelaysChart  []BarChartData `json:"cepDelaysChart"`
}

// RankingsData holds the ranking lists
type RankingsData struct {
	SellersByDelays []RankingEntry `json:"sellersByDelays"`
	ZonesByDelays   []RankingEntry `json:"zonesByDelays"`
	SellersByVolume []RankingEntry `json:"sellersByVolume"`
}

// ConsolidatedData is one page of the merged record base
type ConsolidatedData struct {
	Records      []PackageRecord `json:"records"`
	TotalRecords int             `json:"totalRecords"`
	Page         int             `json:"page"`
	PageSize     int             `json:"pageSize"`
	TotalPages   int             `json:"totalPages"`
}

// PeriodComparison compares the second half of the dates against the first
type PeriodComparison struct {
	Current          SlaMetrics `json:"current"`
	Previous         SlaMetrics `json:"previous"`
	PercentageChange float64    `json:"percentageChange"`
}

// PeriodPerformance is a seller's SLA percentage for one order date
type PeriodPerformance struct {
	Period        string  `json:"period"`
	SlaPercentage float64 `json:"slaPercentage"`
}

// SellerPerformance is a seller's SLA series
type SellerPerformance struct {
	Seller  string              `json:"seller"`
	Periods []PeriodPerformance `json:"periods"`
}

// HistoricalData is the historical comparison view
type HistoricalData struct {
	Mode              string              `json:"mode"`
	SlaEvolution      []LineChartData     `json:"slaEvolution"`
	DelayTrend        []LineChartData     `json:"delayTrend"`
	PeriodComparison  PeriodComparison    `json:"periodComparison"`
	SellerPerformance []SellerPerformance `json:"sellerPerformance"`
}
