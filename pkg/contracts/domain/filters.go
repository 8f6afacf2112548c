package domain

// FilterCriteria narrows a record set. Empty fields impose no constraint.
type FilterCriteria struct {
	StartDate  string `json:"startDate,omitempty"`
	EndDate    string `json:"endDate,omitempty"`
	Zone       string `json:"zone,omitempty"`
	Seller     string `json:"seller,omitempty"`
	CostCenter string `json:"costCenter,omitempty"`
}

// IsEmpty reports whether no criterion is set.
func (c FilterCriteria) IsEmpty() bool {
	return c == FilterCriteria{}
}

// DateRange is the min/max order date of a snapshot
type DateRange struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// FilterOptions lists the facet values available for filtering
type FilterOptions struct {
	Zones       []string   `json:"zones"`
	Sellers     []string   `json:"sellers"`
	CostCenters []string   `json:"costCenters"`
	DateRange   *DateRange `json:"dateRange,omitempty"`
}
