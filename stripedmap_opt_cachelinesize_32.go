//go:build stripedmap_opt_cachelinesize_32

package stripedmap

const CacheLineSize uintptr = 32
