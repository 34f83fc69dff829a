package stripedmap

import (
	"hash/maphash"
	"math/bits"
	"unsafe"
)

// defaultHasher returns the built-in key hash function for K.
//
// Integer keys hash to their own value: sequential ids then spread evenly
// over stripes and buckets, since both are selected by modulo. Every other
// comparable key uses maphash.Comparable with a seed private to the returned
// function; the per-map seed argument is ignored.
func defaultHasher[K comparable]() func(key K, seed uintptr) uintptr {
	switch any(*new(K)).(type) {
	case uint, int, uintptr:
		return func(key K, _ uintptr) uintptr {
			return *(*uintptr)(unsafe.Pointer(&key))
		}

	case uint64, int64:
		if bits.UintSize == 32 {
			return func(key K, _ uintptr) uintptr {
				v := *(*uint64)(unsafe.Pointer(&key))
				return uintptr(v) ^ uintptr(v>>32)
			}
		}
		return func(key K, _ uintptr) uintptr {
			return uintptr(*(*uint64)(unsafe.Pointer(&key)))
		}

	case uint32, int32:
		return func(key K, _ uintptr) uintptr {
			return uintptr(*(*uint32)(unsafe.Pointer(&key)))
		}

	case uint16, int16:
		return func(key K, _ uintptr) uintptr {
			return uintptr(*(*uint16)(unsafe.Pointer(&key)))
		}

	case uint8, int8:
		return func(key K, _ uintptr) uintptr {
			return uintptr(*(*uint8)(unsafe.Pointer(&key)))
		}

	default:
		seed := maphash.MakeSeed()
		return func(key K, _ uintptr) uintptr {
			return uintptr(maphash.Comparable(seed, key))
		}
	}
}
