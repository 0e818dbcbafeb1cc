package buffer

import (
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/image/math/f32"
)

// FloatBuffer is a fixed-capacity buffer of float32 components.
//
// Indexed accessors address a component as
// v*ElemStride() + offset, where v is the vertex (element) index and offset
// is the sub-record offset in components. The same primitive serves tightly
// packed channels (offset 0) and views into an interleaved record.
type FloatBuffer struct {
	Buffer
	data []float32
}

// NewFloatBuffer creates a zeroed buffer of capacity elements with elemSize
// components each.
func NewFloatBuffer(capacity, elemSize int, opts ...Option) (*FloatBuffer, error) {
	b, err := newBuffer(capacity, elemSize, opts)
	if err != nil {
		return nil, err
	}
	return &FloatBuffer{
		Buffer: b,
		data:   make([]float32, b.Len()),
	}, nil
}

// Data returns the backing storage. Writes through it bypass the dirty flag.
func (b *FloatBuffer) Data() []float32 {
	return b.data
}

// Put appends one element at the write cursor. It accepts 1 to ElemSize
// components; components not given keep their previous value.
func (b *FloatBuffer) Put(values ...float32) error {
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
// len(values) must be a multiple of ElemSize.
func (b *FloatBuffer) PutSlice(values []float32) error {
	if len(values)%b.elemSize != 0 {
		return fmt.Errorf("%w: %d components for element size %d", ErrPartialElement, len(values), b.elemSize)
	}
	n := len(values) / b.elemSize
	idx, err := b.Alloc(n)
	if err != nil {
		return err
	}
	es := b.ElemStride()
	if es == b.elemSize {
		copy(b.data[idx*es:], values)
	} else {
		for i := 0; i < n; i++ {
			pos := (idx + i) * es
			copy(b.data[pos:pos+b.elemSize], values[i*b.elemSize:(i+1)*b.elemSize])
		}
	}
	b.dirty = true
	return nil
}

// SetAt writes len(values)/n groups of n components, the first at vertex v,
// each group ElemStride() components after the previous one. A group size
// n <= 0 writes nothing.
func (b *FloatBuffer) SetAt(v, n, offset int, values []float32) {
	if n <= 0 {
		return
	}
	es := b.ElemStride()
	pos := v*es + offset
	for i := 0; i+n <= len(values); i += n {
		copy(b.data[pos:pos+n], values[i:i+n])
		pos += es
	}
	b.dirty = true
}

// GetAt mirrors SetAt: it fills dst with len(dst)/n groups of n components
// starting at vertex v.
func (b *FloatBuffer) GetAt(v, n, offset int, dst []float32) {
	if n <= 0 {
		return
	}
	es := b.ElemStride()
	pos := v*es + offset
	for i := 0; i+n <= len(dst); i += n {
		copy(dst[i:i+n], b.data[pos:pos+n])
		pos += es
	}
}

// SetVec2 writes a 2-component tuple at vertex v.
func (b *FloatBuffer) SetVec2(v, offset int, t f32.Vec2) {
	pos := v*b.ElemStride() + offset
	b.data[pos] = t[0]
	b.data[pos+1] = t[1]
	b.dirty = true
}

// SetVec3 writes a 3-component tuple at vertex v.
func (b *FloatBuffer) SetVec3(v, offset int, t f32.Vec3) {
	pos := v*b.ElemStride() + offset
	b.data[pos] = t[0]
	b.data[pos+1] = t[1]
	b.data[pos+2] = t[2]
	b.dirty = true
}

// SetVec4 writes a 4-component tuple at vertex v.
func (b *FloatBuffer) SetVec4(v, offset int, t f32.Vec4) {
	pos := v*b.ElemStride() + offset
	copy(b.data[pos:pos+4], t[:])
	b.dirty = true
}

// Vec2At reads a 2-component tuple at vertex v.
func (b *FloatBuffer) Vec2At(v, offset int) f32.Vec2 {
	pos := v*b.ElemStride() + offset
	return f32.Vec2{b.data[pos], b.data[pos+1]}
}

// Vec3At reads a 3-component tuple at vertex v.
func (b *FloatBuffer) Vec3At(v, offset int) f32.Vec3 {
	pos := v*b.ElemStride() + offset
	return f32.Vec3{b.data[pos], b.data[pos+1], b.data[pos+2]}
}

// Vec4At reads a 4-component tuple at vertex v.
func (b *FloatBuffer) Vec4At(v, offset int) f32.Vec4 {
	pos := v*b.ElemStride() + offset
	return f32.Vec4{b.data[pos], b.data[pos+1], b.data[pos+2], b.data[pos+3]}
}

// SetColor writes an RGB color, plus alpha when alpha is true.
func (b *FloatBuffer) SetColor(v, offset int, c f32.Vec4, alpha bool) {
	pos := v*b.ElemStride() + offset
	b.data[pos] = c[0]
	b.data[pos+1] = c[1]
	b.data[pos+2] = c[2]
	if alpha {
		b.data[pos+3] = c[3]
	}
	b.dirty = true
}

// ColorAt reads an RGB color, plus alpha when alpha is true.
// Without alpha the returned color is opaque.
func (b *FloatBuffer) ColorAt(v, offset int, alpha bool) f32.Vec4 {
	pos := v*b.ElemStride() + offset
	c := f32.Vec4{b.data[pos], b.data[pos+1], b.data[pos+2], 1}
	if alpha {
		c[3] = b.data[pos+3]
	}
	return c
}

// Clear zeroes the contents and restarts the cursor.
func (b *FloatBuffer) Clear() {
	clear(b.data)
	b.Start()
}

// Duplicate returns a buffer of identical shape and cursor. When copyData is
// true the contents are copied as well; otherwise the new buffer is zeroed.
func (b *FloatBuffer) Duplicate(copyData bool) *FloatBuffer {
	d := &FloatBuffer{
		Buffer: b.Buffer,
		data:   make([]float32, len(b.data)),
	}
	if copyData {
		copy(d.data, b.data)
	}
	d.dirty = true
	return d
}

// Bytes returns the contents encoded as little-endian float32s, the layout
// GPU vertex buffers expect.
func (b *FloatBuffer) Bytes() []byte {
	out := make([]byte, len(b.data)*componentBytes)
	for i, f := range b.data {
		binary.LittleEndian.PutUint32(out[i*componentBytes:], math.Float32bits(f))
	}
	return out
}
