package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slapulse/pkg/contracts/domain"
)

func TestGroupBy(t *testing.T) {
	records := sampleRecords()

	g := GroupBy(records, sellerKey)
	assert.Equal(t, []string{"Loja A", "Loja B", "Loja C"}, g.Keys(), "first-occurrence order, empty key skipped")
	assert.Len(t, g.Get("Loja A"), 3)
	assert.Len(t, g.Get("Loja B"), 3)
	assert.Len(t, g.Get("Loja C"), 2)
	assert.Nil(t, g.Get("missing"))

	byDate := GroupBy(records, orderDateKey)
	assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03", "Unknown"}, byDate.SortedKeys())
}

func TestGroupByPartitionsAllKeyedRecords(t *testing.T) {
	records := sampleRecords()
	g := GroupBy(records, zoneKey)

	total := 0
	for _, k := range g.Keys() {
		total += len(g.Get(k))
	}
	withZone := CountWhere(records, func(r *domain.PackageRecord) bool { return r.Zona != "" })
	assert.Equal(t, withZone, total)
}

func TestDelayAggregates(t *testing.T) {
	tests := []struct {
		name    string
		records []domain.PackageRecord
		sum     int
		avg     float64
		max     int
	}{
		{"empty", nil, 0, 0, 0},
		{"no delays", []domain.PackageRecord{within("2024-01-01", "A", "Z", "1"), pending("2024-01-01", "A", "Z", "1")}, 0, 0, 0},
		{"zero delay ignored", []domain.PackageRecord{late("2024-01-01", "A", "Z", "1", 4), within("2024-01-01", "A", "Z", "1")}, 4, 4, 4},
		{"sample", sampleRecords(), 11, 2.75, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.sum, SumDelay(tt.records))
			assert.InDelta(t, tt.avg, AverageDelay(tt.records), 1e-9)
			assert.Equal(t, tt.max, MaxDelay(tt.records))
		})
	}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(5, 0))
	assert.Equal(t, 50.0, Percentage(1, 2))
	assert.Equal(t, 100.0, Percentage(3, 3))
}

func TestTopN(t *testing.T) {
	counts := []KeyCount{{"a", 1}, {"b", 3}, {"c", 3}, {"d", 2}}

	top := TopN(counts, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "b", top[0].Name, "ties keep first-encountered order")
	assert.Equal(t, "c", top[1].Name)
	assert.Equal(t, "d", top[2].Name)
	for i, e := range top {
		assert.Equal(t, i+1, e.Rank)
		assert.Nil(t, e.Percentage)
	}

	// input untouched
	assert.Equal(t, "a", counts[0].Key)

	assert.Len(t, TopN(counts, 10), 4)
	assert.Empty(t, TopN(nil, 5))
}

func TestCountBySkipsEmptyKeys(t *testing.T) {
	counts := CountBy(sampleRecords(), sellerKey, (*domain.PackageRecord).HasDelay)
	assert.Equal(t, []KeyCount{{"Loja A", 1}, {"Loja B", 1}, {"Loja C", 1}}, counts)
}

func TestDayLabel(t *testing.T) {
	assert.Equal(t, "05 de jan.", dayLabel("2024-01-05"))
	assert.Equal(t, "31 de dez.", dayLabel("2023-12-31"))
	assert.Equal(t, "Unknown", dayLabel("Unknown"))
	assert.Equal(t, "05/01/2024", dayLabel("05/01/2024"))
}
