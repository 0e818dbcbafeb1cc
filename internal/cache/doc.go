// Package cache provides a generic soft-limit LRU cache.
//
// The shader compiler keys compiled vertex stages by layout key; converters
// can key shared appearances by name. The cache object is always passed in
// explicitly, so its lifetime is the caller's.
//
//	c := cache.New[uint64, []byte](64)
//	spirv, hit, err := c.GetOrCreate(key, compile)
//
// # Eviction
//
// When an insertion pushes the cache over its soft limit, the least
// recently used quarter is evicted in one pass.
//
// # Thread Safety
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
