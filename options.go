package meshbuf

import "github.com/gogpu/meshbuf/buffer"

// Option configures a container during creation.
//
// Example:
//
//	// Indexed triangle list drawing from a shared pool
//	g, err := meshbuf.New(gputypes.PrimitiveTopologyTriangleList, 3, 24,
//	    meshbuf.WithIndexCount(36),
//	    meshbuf.WithBufferPool(pool),
//	)
type Option func(*options)

// options holds optional configuration for container creation.
type options struct {
	indexCount  int
	stripCounts []int
	pool        *buffer.Pool
	label       string
}

// WithIndexCount makes the container indexed with n indices.
func WithIndexCount(n int) Option {
	return func(o *options) {
		o.indexCount = n
	}
}

// WithStripCounts sets the vertex count of each strip for strip
// topologies. The counts must add up to the index count for indexed
// containers, or to the vertex count otherwise.
func WithStripCounts(counts ...int) Option {
	return func(o *options) {
		o.stripCounts = append([]int(nil), counts...)
	}
}

// WithBufferPool makes the container allocate channel buffers from p.
// Buffers go back to p on Release and when interleaving replaces them.
func WithBufferPool(p *buffer.Pool) Option {
	return func(o *options) {
		o.pool = p
	}
}

// WithLabel sets the debug label used for exported buffer descriptors.
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}
