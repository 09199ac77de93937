// Package cache holds small in-process caches used to avoid recomputing
// read-mostly results between mutations.
package cache

// Cache defines a generic keyed cache
type Cache[K comparable, V any] interface {
	// Get retrieves a value from the cache
	Get(key K) (V, bool)

	// Set stores a value in the cache
	Set(key K, value V)

	// Delete removes a key from the cache
	Delete(key K)

	// Invalidate removes every key for which match returns true
	Invalidate(match func(K) bool) int

	// Len returns the current number of items in the cache
	Len() int
}

var _ Cache[string, int] = (*LRU[string, int])(nil)
