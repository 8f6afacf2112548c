package analytics

import (
	"sort"

	"slapulse/pkg/contracts/domain"
)

// unknownDate groups records that carry no order date.
const unknownDate = "Unknown"

// Groups is an ordered key -> items mapping. Keys iterate in first-occurrence order.
type Groups[T any] struct {
	keys  []string
	items map[string][]T
}

// GroupBy partitions items by key. Items whose key is empty are skipped.
func GroupBy[T any](items []T, key func(*T) string) *Groups[T] {
	g := &Groups[T]{items: make(map[string][]T)}
	for i := range items {
		k := key(&items[i])
		if k == "" {
			continue
		}
		if _, ok := g.items[k]; !ok {
			g.keys = append(g.keys, k)
		}
		g.items[k] = append(g.items[k], items[i])
	}
	return g
}

// Keys returns the keys in first-occurrence order.
func (g *Groups[T]) Keys() []string {
	return g.keys
}

// SortedKeys returns the keys in ascending lexical order.
func (g *Groups[T]) SortedKeys() []string {
	keys := make([]string, len(g.keys))
	copy(keys, g.keys)
	sort.Strings(keys)
	return keys
}

// Get returns the items grouped under key.
func (g *Groups[T]) Get(key string) []T {
	return g.items[key]
}

// Len returns the number of distinct keys.
func (g *Groups[T]) Len() int {
	return len(g.keys)
}

// CountWhere counts the items satisfying pred.
func CountWhere[T any](items []T, pred func(*T) bool) int {
	n := 0
	for i := range items {
		if pred(&items[i]) {
			n++
		}
	}
	return n
}

// SumDelay sums delays over records with a positive delay.
func SumDelay(records []domain.PackageRecord) int {
	sum := 0
	for i := range records {
		if records[i].HasDelay() {
			sum += *records[i].Atraso
		}
	}
	return sum
}

// AverageDelay is the mean delay over records with a positive delay, 0 when none.
func AverageDelay(records []domain.PackageRecord) float64 {
	n := CountWhere(records, (*domain.PackageRecord).HasDelay)
	if n == 0 {
		return 0
	}
	return float64(SumDelay(records)) / float64(n)
}

// MaxDelay is the largest positive delay, 0 when none.
func MaxDelay(records []domain.PackageRecord) int {
	max := 0
	for i := range records {
		if records[i].HasDelay() && *records[i].Atraso > max {
			max = *records[i].Atraso
		}
	}
	return max
}

// Percentage returns part/whole*100, or 0 when whole is 0.
func Percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// KeyCount is a group key with its record count
type KeyCount struct {
	Key   string
	Count int
}

// CountBy counts records per non-empty key among those satisfying pred (nil
// means all), in first-occurrence order.
func CountBy(records []domain.PackageRecord, key func(*domain.PackageRecord) string, pred func(*domain.PackageRecord) bool) []KeyCount {
	index := make(map[string]int)
	counts := make([]KeyCount, 0)
	for i := range records {
		r := &records[i]
		if pred != nil && !pred(r) {
			continue
		}
		k := key(r)
		if k == "" {
			continue
		}
		pos, ok := index[k]
		if !ok {
			pos = len(counts)
			index[k] = pos
			counts = append(counts, KeyCount{Key: k})
		}
		counts[pos].Count++
	}
	return counts
}

// SortByCountDesc orders counts by descending count. Ties keep their order.
func SortByCountDesc(counts []KeyCount) {
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
}

// TopN sorts counts by descending count, keeps the first n and ranks them 1..n.
func TopN(counts []KeyCount, n int) []domain.RankingEntry {
	sorted := make([]KeyCount, len(counts))
	copy(sorted, counts)
	SortByCountDesc(sorted)

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	entries := make([]domain.RankingEntry, len(sorted))
	for i, kc := range sorted {
		entries[i] = domain.RankingEntry{Rank: i + 1, Name: kc.Key, Value: kc.Count}
	}
	return entries
}

// withShare sets each entry's percentage of total.
func withShare(entries []domain.RankingEntry, total int) []domain.RankingEntry {
	for i := range entries {
		pct := Percentage(entries[i].Value, total)
		entries[i].Percentage = &pct
	}
	return entries
}

// barsFromCounts keeps the n largest counts as chart bars.
func barsFromCounts(counts []KeyCount, n int) []domain.BarChartData {
	sorted := make([]KeyCount, len(counts))
	copy(sorted, counts)
	SortByCountDesc(sorted)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	bars := make([]domain.BarChartData, len(sorted))
	for i, kc := range sorted {
		bars[i] = domain.BarChartData{Label: kc.Key, Value: float64(kc.Count)}
	}
	return bars
}

// lastN returns the trailing n elements of s.
func lastN[T any](s []T, n int) []T {
	if len(s) > n {
		return s[len(s)-n:]
	}
	return s
}

// Key functions
func orderDateKey(r *domain.PackageRecord) string {
	if r.DataPedido == "" {
		return unknownDate
	}
	return r.DataPedido
}

func sellerKey(r *domain.PackageRecord) string     { return r.Vendedor }
func zoneKey(r *domain.PackageRecord) string       { return r.Zona }
func cepKey(r *domain.PackageRecord) string        { return r.CEP }
func costCenterKey(r *domain.PackageRecord) string { return r.CentroDeCusto }
