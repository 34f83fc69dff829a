//go:build stripedmap_opt_cachelinesize_256

package stripedmap

const CacheLineSize uintptr = 256
