package buffer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolReuse(t *testing.T) {
	p := NewPool(2)

	b, err := p.Get(4, 3)
	require.NoError(t, err)
	b.SetAt(0, 3, 0, []float32{1, 2, 3})
	p.Put(b)
	require.Equal(t, 1, p.Len())

	got, err := p.Get(4, 3)
	require.NoError(t, err)
	assert.Same(t, b, got, "Get should reuse the pooled buffer of the same shape")
	assert.Zero(t, got.Data()[0], "pooled buffer must come back cleared")
	assert.Zero(t, got.Cursor())

	other, err := p.Get(4, 3, WithStride(16))
	require.NoError(t, err)
	assert.NotSame(t, b, other, "a different stride must not share a bucket")
}

func TestPoolBucketLimit(t *testing.T) {
	p := NewPool(1)
	for range 3 {
		b, err := NewFloatBuffer(2, 2)
		require.NoError(t, err)
		p.Put(b)
	}
	assert.Equal(t, 1, p.Len())

	p.Put(nil)
	assert.Equal(t, 1, p.Len(), "Put(nil) must be ignored")
}

func TestPoolInvalidShape(t *testing.T) {
	p := NewPool(0)
	_, err := p.Get(0, 3)
	assert.ErrorIs(t, err, ErrInvalidCapacity)
}

func TestPoolConcurrent(t *testing.T) {
	p := NewPool(0)
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := p.Get(8, 2)
			if !assert.NoError(t, err) {
				return
			}
			p.Put(b)
		}()
	}
	wg.Wait()
	assert.NotZero(t, p.Len(), "expected pooled buffers after concurrent use")
}
