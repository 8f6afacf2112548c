package analytics

import (
	"slapulse/pkg/contracts/domain"
)

// Consolidated returns one page of the snapshot. page < 1 and pageSize < 1
// fall back to 1 and 50. Pages past the end are empty.
func (e *Engine) Consolidated(records []domain.PackageRecord, page, pageSize int) (*domain.ConsolidatedData, bool) {
	if len(records) == 0 {
		return nil, false
	}
	if page < 1 {
		page = defaultPage
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	total := len(records)
	totalPages := (total-1)/pageSize + 1

	// compare in pages so huge page numbers or sizes cannot overflow the offset
	start := total
	if page-1 < totalPages {
		start = (page - 1) * pageSize
	}
	end := total
	if pageSize < total-start {
		end = start + pageSize
	}

	pageRecords := records[start:end:end]
	if len(pageRecords) == 0 {
		pageRecords = []domain.PackageRecord{}
	}

	return &domain.ConsolidatedData{
		Records:      pageRecords,
		TotalRecords: total,
		Page:         page,
		PageSize:     pageSize,
		TotalPages:   totalPages,
	}, true
}
