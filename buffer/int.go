package buffer

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/gputypes"
)

// IntBuffer is a fixed-capacity buffer of int32 components, used for
// vertex index lists.
//
// Random-access writes (Set, SetSlice) never move the write cursor.
type IntBuffer struct {
	Buffer
	data []int32
}

// NewIntBuffer creates a zeroed buffer of capacity elements with elemSize
// components each. Index buffers use elemSize 1.
func NewIntBuffer(capacity, elemSize int, opts ...Option) (*IntBuffer, error) {
	b, err := newBuffer(capacity, elemSize, opts)
	if err != nil {
		return nil, err
	}
	return &IntBuffer{
		Buffer: b,
		data:   make([]int32, b.Len()),
	}, nil
}

// Data returns the backing storage.
func (b *IntBuffer) Data() []int32 {
	return b.data
}

// Put appends one element at the write cursor.
func (b *IntBuffer) Put(values ...int32) error {
	if len(values) == 0 || len(values) > b.elemSize {
		return fmt.Errorf("%w: %d components for element size %d", ErrPartialElement, len(values), b.elemSize)
	}
	idx, err := b.Alloc(1)
	if err != nil {
		return err
	}
	pos := idx * b.ElemStride()
	copy(b.data[pos:pos+len(values)], values)
	b.dirty = true
	return nil
}

// PutSlice appends a run of whole elements at the write cursor.
func (b *IntBuffer) PutSlice(values []int32) error {
	if len(values)%b.elemSize != 0 {
		return fmt.Errorf("%w: %d components for element size %d", ErrPartialElement, len(values), b.elemSize)
	}
	n := len(values) / b.elemSize
	idx, err := b.Alloc(n)
	if err != nil {
		return err
	}
	es := b.ElemStride()
	for i := 0; i < n; i++ {
		pos := (idx + i) * es
		copy(b.data[pos:pos+b.elemSize], values[i*b.elemSize:(i+1)*b.elemSize])
	}
	b.dirty = true
	return nil
}

// Set writes the first component of element i.
func (b *IntBuffer) Set(i int, v int32) {
	b.data[i*b.ElemStride()] = v
	b.dirty = true
}

// SetSlice writes one component per element starting at element i.
func (b *IntBuffer) SetSlice(i int, values []int32) {
	es := b.ElemStride()
	if es == 1 {
		copy(b.data[i:i+len(values)], values)
	} else {
		for j, v := range values {
			b.data[(i+j)*es] = v
		}
	}
	b.dirty = true
}

// Get reads the first component of element i.
func (b *IntBuffer) Get(i int) int32 {
	return b.data[i*b.ElemStride()]
}

// GetSlice fills dst with one component per element starting at element i.
func (b *IntBuffer) GetSlice(i int, dst []int32) {
	es := b.ElemStride()
	if es == 1 {
		copy(dst, b.data[i:i+len(dst)])
		return
	}
	for j := range dst {
		dst[j] = b.data[(i+j)*es]
	}
}

// Max returns the largest stored value, or 0 for an all-negative buffer.
func (b *IntBuffer) Max() int32 {
	var m int32
	for _, v := range b.data {
		if v > m {
			m = v
		}
	}
	return m
}

// Duplicate returns a buffer of identical shape and cursor, with the
// contents copied when copyData is true.
func (b *IntBuffer) Duplicate(copyData bool) *IntBuffer {
	d := &IntBuffer{
		Buffer: b.Buffer,
		data:   make([]int32, len(b.data)),
	}
	if copyData {
		copy(d.data, b.data)
	}
	d.dirty = true
	return d
}

// Bytes encodes the contents little-endian in the given index format.
// Values are truncated to 16 bits for IndexFormatUint16; callers choose the
// format from Max. Unknown formats return nil.
func (b *IntBuffer) Bytes(format gputypes.IndexFormat) []byte {
	size := int(format.Size())
	if size == 0 {
		return nil
	}
	out := make([]byte, len(b.data)*size)
	for i, v := range b.data {
		switch format {
		case gputypes.IndexFormatUint16:
			binary.LittleEndian.PutUint16(out[i*size:], uint16(v)) //nolint:gosec // G115: caller checked Max
		case gputypes.IndexFormatUint32:
			binary.LittleEndian.PutUint32(out[i*size:], uint32(v)) //nolint:gosec // G115: indices are non-negative
		}
	}
	return out
}
