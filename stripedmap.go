// Package stripedmap provides StripedMapOf, a concurrent hash map guarded by
// a fixed array of stripe locks.
package stripedmap

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
)

const (
	// loadFactor is the maximum average chain length. Once an insert observes
	// ceil(size/bucketCount) above it, the table grows.
	loadFactor = 3
	// defaultConcurrency is the minimum number of stripes (partition locks).
	defaultConcurrency = 8
)

// StripedMapOf is a hash map that is safe for concurrent use by multiple
// goroutines. Instead of one global lock it owns a fixed array of stripes,
// each a mutex guarding the buckets whose index is congruent to the stripe
// index modulo the stripe count. Keys that fall into different stripes are
// served fully in parallel; keys sharing a stripe are serialized by its lock.
//
// Key features:
//   - Stripe count is fixed at construction: max(8, WithConcurrency hint)
//   - Bucket count is always a multiple of the stripe count and never shrinks
//   - Insert is first-writer-wins: an existing value is never overwritten
//   - The table grows automatically once the average chain length exceeds 3
//   - Clear and growth are global barriers: they take every stripe lock in
//     ascending order and release them in the same order
//   - Reads use the same exclusive stripe lock as writes
//
// A StripedMapOf must be created with NewStripedMapOf or
// NewStripedMapOfWithHasher and must not be copied after first use.
type StripedMapOf[K comparable, V any] struct {
	table          atomic.Pointer[stripedTable[K, V]]
	stripes        []stripe
	keyHash        func(key K, seed uintptr) uintptr
	seed           uintptr
	minTableLen    int // WithPresize
	logger         *slog.Logger
	totalGrowths   atomic.Uint32
	skippedGrowths atomic.Uint32
	totalClears    atomic.Uint32
}

// MapConfig defines configurable StripedMapOf options.
type MapConfig struct {
	sizeHint    int
	concurrency int
	logger      *slog.Logger
}

// WithPresize configures new StripedMapOf instance with capacity enough
// to hold sizeHint entries without growing. If sizeHint is zero or negative,
// the expected size is treated as unknown and the table starts with one
// bucket per stripe.
func WithPresize(sizeHint int) func(*MapConfig) {
	return func(c *MapConfig) {
		c.sizeHint = sizeHint
	}
}

// WithConcurrency sets the expected number of goroutines mutating the map
// at the same time. The stripe count is max(8, expectedThreads). Zero or
// negative hints are clamped to the default of 8 stripes.
func WithConcurrency(expectedThreads int) func(*MapConfig) {
	return func(c *MapConfig) {
		c.concurrency = expectedThreads
	}
}

// WithLogger sets the logger used for growth and clear diagnostics.
// All records are emitted at debug level. A nil logger discards them.
func WithLogger(logger *slog.Logger) func(*MapConfig) {
	return func(c *MapConfig) {
		c.logger = logger
	}
}

// EntryOf is a key/value pair stored in a bucket chain.
type EntryOf[K comparable, V any] struct {
	Key   K
	Value V
}

// stripedTable is the bucket table. The slice header is immutable once the
// table is published; chain contents change only under the owning stripe lock.
type stripedTable[K comparable, V any] struct {
	buckets [][]EntryOf[K, V]
}

// newStripedTable allocates tableLen empty buckets. When reserve is set every
// bucket gets room for loadFactor entries carved out of one backing array.
func newStripedTable[K comparable, V any](tableLen int, reserve bool) *stripedTable[K, V] {
	t := &stripedTable[K, V]{buckets: make([][]EntryOf[K, V], tableLen)}
	if reserve {
		backing := make([]EntryOf[K, V], tableLen*loadFactor)
		for i := range t.buckets {
			lo := i * loadFactor
			t.buckets[i] = backing[lo:lo:lo+loadFactor]
		}
	}
	return t
}

// NewStripedMapOf creates a new StripedMapOf using the built-in hasher.
//
// Parameters:
//   - WithPresize option for the expected number of entries
//   - WithConcurrency option for the expected number of writers
//   - WithLogger option for diagnostics
func NewStripedMapOf[K comparable, V any](
	options ...func(*MapConfig),
) *StripedMapOf[K, V] {
	return NewStripedMapOfWithHasher[K, V](nil, options...)
}

// NewStripedMapOfWithHasher creates a StripedMapOf with a custom key hash
// function. The seed passed to keyHash is chosen randomly per map and is
// constant for its lifetime; keyHash must return the same value for equal
// keys. A nil keyHash uses the built-in hasher.
func NewStripedMapOfWithHasher[K comparable, V any](
	keyHash func(key K, seed uintptr) uintptr,
	options ...func(*MapConfig),
) *StripedMapOf[K, V] {
	c := &MapConfig{}
	for _, o := range options {
		o(c)
	}

	m := &StripedMapOf[K, V]{
		stripes: make([]stripe, calcStripeLen(c.concurrency)),
		seed:    uintptr(rand.Uint64()),
		keyHash: keyHash,
		logger:  c.logger,
	}
	if m.keyHash == nil {
		m.keyHash = defaultHasher[K]()
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}

	m.minTableLen = calcTableLen(c.sizeHint, len(m.stripes))
	m.table.Store(newStripedTable[K, V](m.minTableLen, c.sizeHint > 0))
	return m
}

// calcStripeLen returns the number of stripes for a concurrency hint.
func calcStripeLen(concurrency int) int {
	return max(defaultConcurrency, concurrency)
}

// calcTableLen computes the initial bucket count: stripes when the size is
// unknown, otherwise the smallest multiple of stripes that keeps sizeHint
// entries within the load factor.
func calcTableLen(sizeHint, stripes int) int {
	if sizeHint <= 0 {
		return stripes
	}
	return roundUpMultiple((sizeHint+loadFactor-1)/loadFactor, stripes)
}

// roundUpMultiple returns the smallest positive multiple of m that is >= n.
func roundUpMultiple(n, m int) int {
	if n <= m {
		return m
	}
	if r := n % m; r != 0 {
		return n + m - r
	}
	return n
}

// overloaded reports whether the average chain length, rounded up, exceeds
// the load factor.
func overloaded(size, tableLen int) bool {
	return (size+tableLen-1)/tableLen > loadFactor
}

// lockStripe locks and returns the stripe owning hash. The bucket index must
// be derived from the table loaded after this call returns.
func (m *StripedMapOf[K, V]) lockStripe(hash uintptr) *stripe {
	s := &m.stripes[hash%uintptr(len(m.stripes))]
	s.mu.Lock()
	return s
}

// lockAll acquires every stripe in ascending index order.
func (m *StripedMapOf[K, V]) lockAll() {
	for i := range m.stripes {
		m.stripes[i].mu.Lock()
	}
}

// unlockAll releases every stripe in ascending index order.
func (m *StripedMapOf[K, V]) unlockAll() {
	for i := range m.stripes {
		m.stripes[i].mu.Unlock()
	}
}

// Insert stores value under key if the key is absent and reports whether it
// did. An existing value is left untouched and false is returned.
func (m *StripedMapOf[K, V]) Insert(key K, value V) bool {
	hash := m.keyHash(key, m.seed)
	s := m.lockStripe(hash)

	table := m.table.Load()
	bidx := hash % uintptr(len(table.buckets))
	chain := table.buckets[bidx]
	for i := range chain {
		if chain[i].Key == key {
			s.mu.Unlock()
			return false
		}
	}
	table.buckets[bidx] = append(chain, EntryOf[K, V]{Key: key, Value: value})
	s.count.Add(1)
	s.mu.Unlock()

	// Size and bucket count are read separately, so the check is advisory;
	// grow re-validates it with every stripe held.
	if overloaded(m.Size(), m.BucketCount()) {
		m.grow()
	}
	return true
}

// Erase removes key and reports whether it was present.
// The table never shrinks.
func (m *StripedMapOf[K, V]) Erase(key K) bool {
	hash := m.keyHash(key, m.seed)
	s := m.lockStripe(hash)
	defer s.mu.Unlock()

	table := m.table.Load()
	bidx := hash % uintptr(len(table.buckets))
	chain := table.buckets[bidx]
	for i := range chain {
		if chain[i].Key == key {
			last := len(chain) - 1
			chain[i] = chain[last]
			chain[last] = EntryOf[K, V]{}
			table.buckets[bidx] = chain[:last]
			s.count.Add(-1)
			return true
		}
	}
	return false
}

// Find returns the value stored under key.
// The ok result indicates whether the key was found.
func (m *StripedMapOf[K, V]) Find(key K) (value V, ok bool) {
	hash := m.keyHash(key, m.seed)
	s := m.lockStripe(hash)
	defer s.mu.Unlock()

	table := m.table.Load()
	chain := table.buckets[hash%uintptr(len(table.buckets))]
	for i := range chain {
		if chain[i].Key == key {
			return chain[i].Value, true
		}
	}
	return
}

// At returns the value stored under key, or an error wrapping
// ErrKeyNotFound if there is none.
func (m *StripedMapOf[K, V]) At(key K) (V, error) {
	value, ok := m.Find(key)
	if !ok {
		return value, fmt.Errorf("%w: %v", ErrKeyNotFound, key)
	}
	return value, nil
}

// HasKey reports whether key is present.
func (m *StripedMapOf[K, V]) HasKey(key K) bool {
	_, ok := m.Find(key)
	return ok
}

// Clear removes every entry. It holds all stripe locks for its duration, so
// every other operation observes it either entirely before or entirely after.
// The bucket count is preserved.
func (m *StripedMapOf[K, V]) Clear() {
	m.lockAll()
	table := m.table.Load()
	removed := 0
	for i, chain := range table.buckets {
		removed += len(chain)
		clear(chain)
		table.buckets[i] = chain[:0]
	}
	for i := range m.stripes {
		m.stripes[i].count.Store(0)
	}
	m.totalClears.Add(1)
	m.unlockAll()

	m.logger.Debug("stripedmap clear", "removed", removed)
}

// Size returns the number of entries in the map. Under concurrent
// modification the result is an instantaneous approximation.
func (m *StripedMapOf[K, V]) Size() int {
	var sum int64
	for i := range m.stripes {
		sum += m.stripes[i].count.Load()
	}
	return int(sum)
}

// IsZero reports whether the map holds no entries.
func (m *StripedMapOf[K, V]) IsZero() bool {
	for i := range m.stripes {
		if m.stripes[i].count.Load() != 0 {
			return false
		}
	}
	return true
}

// PartitionCount returns the number of stripe locks.
func (m *StripedMapOf[K, V]) PartitionCount() int {
	return len(m.stripes)
}

// BucketCount returns the current number of buckets.
func (m *StripedMapOf[K, V]) BucketCount() int {
	return len(m.table.Load().buckets)
}
