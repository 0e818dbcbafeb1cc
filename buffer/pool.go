package buffer

import "sync"

// Pool is a thread-safe pool for reusing FloatBuffer instances.
//
// Pool groups buffers by shape (capacity, element size, stride, fill
// direction), so a returned buffer is only handed out again for an
// identical request. This cuts allocation churn when many meshes of the
// same size are built and released, as model converters do.
//
// Thread safety: All methods are safe for concurrent use. The buffers
// themselves are not.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*FloatBuffer
	maxSize int // max buffers per bucket
}

// poolKey identifies a bucket of identically shaped buffers.
type poolKey struct {
	capacity int
	elemSize int
	stride   int
	reversed bool
}

// NewPool creates a pool retaining at most maxPerBucket buffers per shape.
// A maxPerBucket of 0 means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*FloatBuffer),
		maxSize: maxPerBucket,
	}
}

// Get returns a zeroed buffer of the requested shape, reusing a pooled one
// when available. Errors are the same as NewFloatBuffer's.
func (p *Pool) Get(capacity, elemSize int, opts ...Option) (*FloatBuffer, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	key := poolKey{capacity: capacity, elemSize: elemSize, stride: o.stride, reversed: o.reversed}

	p.mu.Lock()
	bucket := p.buckets[key]
	if len(bucket) > 0 {
		buf := bucket[len(bucket)-1]
		p.buckets[key] = bucket[:len(bucket)-1]
		p.mu.Unlock()
		return buf, nil
	}
	p.mu.Unlock()

	return NewFloatBuffer(capacity, elemSize, opts...)
}

// Put clears buf and keeps it for reuse. Nil buffers and buffers beyond
// the bucket limit are dropped.
func (p *Pool) Put(buf *FloatBuffer) {
	if buf == nil {
		return
	}

	// Clear before pooling so Get never has to.
	buf.Clear()

	key := poolKey{
		capacity: buf.capacity,
		elemSize: buf.elemSize,
		stride:   buf.stride,
		reversed: buf.reversed,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, buf)
}

// Len returns the number of pooled buffers across all shapes.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, bucket := range p.buckets {
		n += len(bucket)
	}
	return n
}
