//go:build stripedmap_opt_nopadding

package stripedmap

import (
	"sync"
	"sync/atomic"
)

const enablePadding = false

type stripe struct {
	mu    sync.Mutex
	count atomic.Int64
}
