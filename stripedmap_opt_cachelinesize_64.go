//go:build stripedmap_opt_cachelinesize_64

package stripedmap

const CacheLineSize uintptr = 64
