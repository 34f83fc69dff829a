//go:build !stripedmap_opt_cachelinesize_32 && !stripedmap_opt_cachelinesize_64 && !stripedmap_opt_cachelinesize_128 && !stripedmap_opt_cachelinesize_256

package stripedmap

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CacheLineSize is used in structure padding to prevent false sharing
// between neighbouring stripe locks.
// It's automatically calculated using the `golang.org/x/sys` package.
const CacheLineSize = unsafe.Sizeof(cpu.CacheLinePad{})
