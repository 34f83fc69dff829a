package stripedmap

import (
	"fmt"
	"math"
	"strings"
)

// Stats returns statistics for the StripedMapOf. It takes every stripe
// lock, like Clear, so the figures are a consistent snapshot. It is an O(N)
// operation that blocks all other traffic and should be used only for
// diagnostics or debugging purposes.
func (m *StripedMapOf[K, V]) Stats() *MapStats {
	stats := &MapStats{
		MinEntries: math.MaxInt,
	}

	m.lockAll()
	table := m.table.Load()
	stats.Partitions = len(m.stripes)
	stats.Buckets = len(table.buckets)
	stats.MinBuckets = m.minTableLen
	stats.Counter = m.Size()
	for _, chain := range table.buckets {
		n := len(chain)
		stats.Size += n
		if n == 0 {
			stats.EmptyBuckets++
		}
		stats.MinEntries = min(stats.MinEntries, n)
		stats.MaxEntries = max(stats.MaxEntries, n)
	}
	stats.TotalGrowths = m.totalGrowths.Load()
	stats.SkippedGrowths = m.skippedGrowths.Load()
	stats.TotalClears = m.totalClears.Load()
	m.unlockAll()

	stats.LoadFactor = float64(stats.Size) / float64(stats.Buckets)
	return stats
}

// MapStats is StripedMapOf statistics.
//
// Warning: map statistics are intended to be used for diagnostic
// purposes, not for production code. This means that breaking changes
// may be introduced into this struct even between minor releases.
type MapStats struct {
	// Partitions is the number of stripe locks. It never changes.
	Partitions int
	// Buckets is the number of buckets in the hash table.
	// It is always a multiple of Partitions.
	Buckets int
	// MinBuckets is the bucket count the map was created with.
	MinBuckets int
	// EmptyBuckets is the number of buckets that hold no entries.
	EmptyBuckets int
	// Size is the exact number of entries stored in the map.
	Size int
	// Counter is the number of entries according to the striped
	// counters. Taken under all stripe locks it always equals Size.
	Counter int
	// MinEntries is the length of the shortest bucket chain.
	MinEntries int
	// MaxEntries is the length of the longest bucket chain.
	MaxEntries int
	// LoadFactor is the average chain length, Size / Buckets.
	LoadFactor float64
	// TotalGrowths is the number of times the hash table grew.
	TotalGrowths uint32
	// SkippedGrowths is the number of growth attempts that found the
	// table already large enough once every stripe was held.
	SkippedGrowths uint32
	// TotalClears is the number of Clear calls.
	TotalClears uint32
}

// ToString returns string representation of map stats.
func (s *MapStats) ToString() string {
	var sb strings.Builder
	sb.WriteString("MapStats{\n")
	sb.WriteString(fmt.Sprintf("Partitions:     %d\n", s.Partitions))
	sb.WriteString(fmt.Sprintf("Buckets:        %d\n", s.Buckets))
	sb.WriteString(fmt.Sprintf("MinBuckets:     %d\n", s.MinBuckets))
	sb.WriteString(fmt.Sprintf("EmptyBuckets:   %d\n", s.EmptyBuckets))
	sb.WriteString(fmt.Sprintf("Size:           %d\n", s.Size))
	sb.WriteString(fmt.Sprintf("Counter:        %d\n", s.Counter))
	sb.WriteString(fmt.Sprintf("MinEntries:     %d\n", s.MinEntries))
	sb.WriteString(fmt.Sprintf("MaxEntries:     %d\n", s.MaxEntries))
	sb.WriteString(fmt.Sprintf("LoadFactor:     %.3f\n", s.LoadFactor))
	sb.WriteString(fmt.Sprintf("TotalGrowths:   %d\n", s.TotalGrowths))
	sb.WriteString(fmt.Sprintf("SkippedGrowths: %d\n", s.SkippedGrowths))
	sb.WriteString(fmt.Sprintf("TotalClears:    %d\n", s.TotalClears))
	sb.WriteString("}\n")
	return sb.String()
}
