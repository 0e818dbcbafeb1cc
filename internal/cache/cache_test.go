package cache

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheGetSet(t *testing.T) {
	c := New[uint64, string](0)
	_, ok := c.Get(1)
	require.False(t, ok, "Get on empty cache should miss")

	c.Set(1, "a")
	got, ok := c.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "a", got)

	assert.True(t, c.Delete(1))
	assert.False(t, c.Delete(1), "second Delete")

	s := c.Stats()
	assert.Equal(t, uint64(1), s.Hits)
	assert.Equal(t, uint64(1), s.Misses)
	assert.InDelta(t, 0.5, s.HitRate, 1e-9)
}

func TestCacheEvictsOldest(t *testing.T) {
	c := New[int, int](4)
	for i := range 4 {
		c.Set(i, i)
	}
	// Touch 0 so it survives.
	c.Get(0)
	c.Set(4, 4)

	require.Equal(t, 3, c.Len())
	_, ok := c.Get(0)
	assert.True(t, ok, "recently used entry 0 was evicted")
	for _, k := range []int{1, 2} {
		_, ok := c.Get(k)
		assert.False(t, ok, "entry %d should have been evicted", k)
	}
	assert.Equal(t, uint64(2), c.Stats().Evictions)
}

func TestCacheGetOrCreate(t *testing.T) {
	c := New[string, int](0)
	calls := 0
	create := func() (int, error) {
		calls++
		return 42, nil
	}

	v, hit, err := c.GetOrCreate("k", create)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.False(t, hit)

	v, hit, err = c.GetOrCreate("k", create)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.True(t, hit)
	assert.Equal(t, 1, calls)
}

func TestCacheGetOrCreateError(t *testing.T) {
	c := New[string, int](0)
	boom := errors.New("boom")
	_, _, err := c.GetOrCreate("k", func() (int, error) { return 0, boom })
	require.ErrorIs(t, err, boom)
	assert.Zero(t, c.Len(), "failed creation must not be cached")
}

func TestCacheClear(t *testing.T) {
	c := New[int, int](0)
	c.Set(1, 1)
	c.Get(1)
	c.Clear()
	assert.Zero(t, c.Len())
	assert.Equal(t, uint64(1), c.Stats().Hits, "Clear should keep statistics")
}

func TestCacheConcurrent(t *testing.T) {
	c := New[int, int](8)
	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = c.GetOrCreate(i%10, func() (int, error) { return i, nil })
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 8, "soft limit exceeded")
}

func BenchmarkCacheGetOrCreate(b *testing.B) {
	c := New[uint64, int](64)
	var i uint64
	for b.Loop() {
		i++
		_, _, _ = c.GetOrCreate(i%32, func() (int, error) { return 0, nil })
	}
}
