//go:build stripedmap_opt_cachelinesize_128

package stripedmap

const CacheLineSize uintptr = 128
