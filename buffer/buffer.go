// Package buffer provides fixed-capacity typed buffers that back mesh channels.
//
// A buffer is a flat slice of 32-bit components grouped into elements. Each
// element holds ElemSize components and consecutive elements start
// ElemStride components apart. A tightly packed buffer has
// ElemStride == ElemSize; an interleaved record buffer has one element per
// vertex whose size equals the record stride.
//
// Buffers only do positional arithmetic. Semantic validation (channel sizes,
// vertex ranges) belongs to the geometry containers that own them, so the
// per-vertex read/write path stays branch-free.
//
// Thread safety: buffers assume a single writer. Two channel views over the
// same interleaved buffer write the same memory.
package buffer

import (
	"errors"
	"fmt"
)

// Common errors for buffer construction and allocation.
var (
	// ErrInvalidCapacity is returned when the capacity is not positive.
	ErrInvalidCapacity = errors.New("buffer: invalid capacity")

	// ErrInvalidElemSize is returned when the element size is not positive.
	ErrInvalidElemSize = errors.New("buffer: invalid element size")

	// ErrInvalidStride is returned when a byte stride is not a multiple of 4
	// or is smaller than the element size.
	ErrInvalidStride = errors.New("buffer: invalid stride")

	// ErrCapacityExceeded is returned when an allocation would move the
	// write cursor outside [0, capacity].
	ErrCapacityExceeded = errors.New("buffer: capacity exceeded")

	// ErrInvalidCount is returned for negative allocation counts.
	ErrInvalidCount = errors.New("buffer: invalid count")

	// ErrPartialElement is returned when a write does not cover whole elements
	// or covers more components than one element holds.
	ErrPartialElement = errors.New("buffer: partial element")
)

// componentBytes is the size of one float32 or int32 component.
const componentBytes = 4

// Option configures a buffer during creation.
type Option func(*options)

type options struct {
	stride   int
	reversed bool
}

// WithStride sets the byte distance between consecutive elements.
// Zero means tightly packed (ElemSize*4 bytes).
func WithStride(bytes int) Option {
	return func(o *options) {
		o.stride = bytes
	}
}

// Reversed makes the buffer fill from the end: Start resets the cursor to
// the capacity and Alloc moves it towards zero.
func Reversed() Option {
	return func(o *options) {
		o.reversed = true
	}
}

// Buffer is the allocation bookkeeping shared by FloatBuffer and IntBuffer.
//
// Invariant: 0 <= Cursor() <= Capacity() at all times.
type Buffer struct {
	capacity int
	elemSize int
	stride   int // bytes, 0 = tightly packed
	reversed bool
	cursor   int
	dirty    bool
}

func newBuffer(capacity, elemSize int, opts []Option) (Buffer, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if capacity <= 0 {
		return Buffer{}, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	if elemSize <= 0 {
		return Buffer{}, fmt.Errorf("%w: %d", ErrInvalidElemSize, elemSize)
	}
	if o.stride != 0 && (o.stride%componentBytes != 0 || o.stride < elemSize*componentBytes) {
		return Buffer{}, fmt.Errorf("%w: %d bytes for %d components", ErrInvalidStride, o.stride, elemSize)
	}
	b := Buffer{
		capacity: capacity,
		elemSize: elemSize,
		stride:   o.stride,
		reversed: o.reversed,
		dirty:    true,
	}
	if b.reversed {
		b.cursor = capacity
	}
	return b, nil
}

// Capacity returns the number of element slots. It never changes.
func (b *Buffer) Capacity() int {
	return b.capacity
}

// ElemSize returns the number of components per element.
func (b *Buffer) ElemSize() int {
	return b.elemSize
}

// Stride returns the byte distance between elements, or 0 when tightly packed.
func (b *Buffer) Stride() int {
	return b.stride
}

// ElemStride returns the component distance between consecutive elements:
// Stride()/4 when a stride is set, ElemSize() otherwise.
func (b *Buffer) ElemStride() int {
	if b.stride != 0 {
		return b.stride / componentBytes
	}
	return b.elemSize
}

// Reversed reports whether the buffer fills from the end.
func (b *Buffer) Reversed() bool {
	return b.reversed
}

// Cursor returns the next free slot index.
func (b *Buffer) Cursor() int {
	return b.cursor
}

// Dirty reports whether the contents changed since the consumer last
// called SetDirty(false).
func (b *Buffer) Dirty() bool {
	return b.dirty
}

// SetDirty sets the change-notification flag. It has no other effect.
func (b *Buffer) SetDirty(dirty bool) {
	b.dirty = dirty
}

// Start resets the cursor to the fill origin (0, or the capacity for
// reversed buffers) and marks the buffer dirty.
func (b *Buffer) Start() {
	if b.reversed {
		b.cursor = b.capacity
	} else {
		b.cursor = 0
	}
	b.dirty = true
}

// Alloc reserves count contiguous elements and returns the index of the
// first one. Forward buffers return the current cursor and advance it;
// reversed buffers move the cursor back first and return the new cursor.
func (b *Buffer) Alloc(count int) (int, error) {
	if count < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	if b.reversed {
		if b.cursor-count < 0 {
			return 0, fmt.Errorf("%w: alloc %d with %d free", ErrCapacityExceeded, count, b.cursor)
		}
		b.cursor -= count
		return b.cursor, nil
	}
	if b.cursor+count > b.capacity {
		return 0, fmt.Errorf("%w: alloc %d with %d free", ErrCapacityExceeded, count, b.capacity-b.cursor)
	}
	start := b.cursor
	b.cursor += count
	return start, nil
}

// Count returns the number of elements produced so far: the cursor for
// forward buffers, capacity minus cursor for reversed buffers.
func (b *Buffer) Count() int {
	if b.reversed {
		return b.capacity - b.cursor
	}
	return b.cursor
}

// Len returns the number of components in the backing storage.
func (b *Buffer) Len() int {
	return b.capacity * b.ElemStride()
}

