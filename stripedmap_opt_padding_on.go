//go:build !stripedmap_opt_nopadding

package stripedmap

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

// enablePadding is true, each stripe is padded to a full cache line so that
// contended locks of neighbouring stripes never share one.
// Build with `stripedmap_opt_nopadding` to trade that for a smaller stripe array.
const enablePadding = true

// stripe is one partition lock together with its share of the size counter.
type stripe struct {
	//lint:ignore U1000 prevents false sharing
	pad [(CacheLineSize - unsafe.Sizeof(struct {
		mu    sync.Mutex
		count atomic.Int64
	}{})%CacheLineSize) % CacheLineSize]byte

	mu    sync.Mutex
	count atomic.Int64 // entries in buckets owned by this stripe
}
