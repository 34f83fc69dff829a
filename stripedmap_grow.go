package stripedmap

import (
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// minStripesPerGoroutine defines the minimum number of stripes one
	// goroutine redistributes during a parallel rehash.
	minStripesPerGoroutine = 1
	// parallelRehashThreshold defines the minimum number of buckets in the
	// old table required to redistribute entries in parallel.
	// Smaller tables are rehashed on the calling goroutine.
	parallelRehashThreshold = 128 * 1024 / CacheLineSize
)

// grow enlarges the table once every stripe lock is held. Concurrent callers
// are expected: each one re-validates the load factor under the barrier and
// all but the first return without work.
//
// The new bucket count is the smallest multiple of the stripe count that is
// >= the size observed under the barrier. Inserts queued on stripe locks
// while the barrier is held are not accounted for, so a burst right after a
// growth can push the average chain length past the load factor again and
// trigger the next growth sooner. This is accepted as best effort.
func (m *StripedMapOf[K, V]) grow() {
	start := time.Now()
	m.lockAll()

	table := m.table.Load()
	tableLen := len(table.buckets)
	size := m.Size()
	if !overloaded(size, tableLen) {
		m.unlockAll()
		m.skippedGrowths.Add(1)
		m.logger.Debug("stripedmap grow skipped", "size", size, "buckets", tableLen)
		return
	}

	newTableLen := roundUpMultiple(size, len(m.stripes))
	newTable := newStripedTable[K, V](newTableLen, false)
	chunks := m.rehash(table, newTable)
	m.table.Store(newTable)
	m.totalGrowths.Add(1)
	m.unlockAll()

	m.logger.Debug("stripedmap grow",
		"from", tableLen,
		"to", newTableLen,
		"size", size,
		"partitions", len(m.stripes),
		"chunks", chunks,
		"elapsed", time.Since(start),
	)
}

// rehash moves every entry of table into newTable and returns the number of
// goroutines that took part. The caller must hold every stripe lock.
//
// Both bucket counts are multiples of the stripe count, so an entry owned by
// stripe p in table is owned by stripe p in newTable as well. Workers are
// handed disjoint stripe ranges and never write the same destination bucket.
func (m *StripedMapOf[K, V]) rehash(table, newTable *stripedTable[K, V]) int {
	stripes := len(m.stripes)
	cpus := runtime.GOMAXPROCS(0)
	if len(table.buckets) < int(parallelRehashThreshold) || cpus <= 1 {
		copyStripes(table, 0, stripes, stripes, newTable, m.keyHash, m.seed)
		return 1
	}

	chunkSize, chunks := calcParallelism(stripes, minStripesPerGoroutine, cpus)
	var g errgroup.Group
	g.SetLimit(cpus)
	for c := 0; c < chunks; c++ {
		start := c * chunkSize
		end := min(start+chunkSize, stripes)
		g.Go(func() error {
			copyStripes(table, start, end, stripes, newTable, m.keyHash, m.seed)
			return nil
		})
	}
	_ = g.Wait()
	return chunks
}

// calcParallelism calculates the number of goroutines for parallel processing.
//
// Parameters:
//   - items: Number of items to process.
//   - threshold: Minimum number of items per goroutine.
//   - cpus: number of available CPU cores
//
// Returns:
//   - chunkSize: Number of items processed per goroutine
//   - chunks: Suggested degree of parallelism (number of goroutines).
func calcParallelism(items, threshold, cpus int) (chunkSize, chunks int) {
	if items <= threshold {
		return items, 1
	}

	chunks = min(items/threshold, cpus)

	chunkSize = (items + chunks - 1) / chunks

	return chunkSize, chunks
}

// copyStripes moves the entries of stripes [start, end) from table into
// destTable, rehashing each key against the new bucket count.
func copyStripes[K comparable, V any](
	table *stripedTable[K, V],
	start, end, stripes int,
	destTable *stripedTable[K, V],
	keyHash func(key K, seed uintptr) uintptr,
	seed uintptr,
) {
	destLen := uintptr(len(destTable.buckets))
	for p := start; p < end; p++ {
		for i := p; i < len(table.buckets); i += stripes {
			for _, e := range table.buckets[i] {
				bidx := keyHash(e.Key, seed) % destLen
				destTable.buckets[bidx] = append(destTable.buckets[bidx], e)
			}
		}
	}
}
